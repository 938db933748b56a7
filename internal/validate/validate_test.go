package validate

import (
	"errors"
	"testing"

	"stockdesk/m/domain"
)

func TestProductRejectsNegativeStock(t *testing.T) {
	p := domain.Product{Code: "GRN-1", Name: "Soap", Stock: -1}
	err := Struct(p)
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Field != "stock" || fe.Message != "stock must be 0 or greater" {
		t.Errorf("unexpected error %+v", fe)
	}
}

func TestProductRejectsNegativePrices(t *testing.T) {
	cases := []domain.Product{
		{Code: "A", Name: "x", BuyingPrice: -0.01},
		{Code: "A", Name: "x", SellingPrice: -5},
	}
	for _, p := range cases {
		if err := Struct(p); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}

func TestValidProduct(t *testing.T) {
	p := domain.Product{Code: "GRN-1", Name: "Soap", BuyingPrice: 1, SellingPrice: 2, Stock: 0}
	if err := Struct(p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequiredAndRole(t *testing.T) {
	err := Struct(domain.User{Username: "bob", Role: "owner"})
	if err == nil || err.Error() != "role must be one of: admin user" {
		t.Errorf("unexpected error %v", err)
	}
	err = Struct(domain.Product{Name: "x"})
	if err == nil || err.Error() != "code is required" {
		t.Errorf("unexpected error %v", err)
	}
	err = Struct(domain.User{Username: "bob", Role: "user", Email: "nope"})
	if err == nil || err.Error() != "email must be a valid email address" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNestedItemsReportPath(t *testing.T) {
	s := domain.Supplier{Name: "Acme", Items: []domain.PurchasedItem{{Name: "Bolt", Quantity: -2}}}
	var fe *FieldError
	if err := Struct(s); !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Field != "items[0].quantity" {
		t.Errorf("unexpected field %q", fe.Field)
	}
}

func TestVar(t *testing.T) {
	if err := Var("quantity", int64(0), "gt=0"); err == nil || err.Error() != "quantity must be greater than 0" {
		t.Errorf("unexpected error %v", err)
	}
	if err := Var("quantity", int64(3), "gt=0"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
