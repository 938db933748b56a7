package inventory

import (
	"context"
	"sync"

	"stockdesk/m/domain"
	"stockdesk/m/internal/remote"
)

// fakeBackend keeps products and suppliers in memory.
type fakeBackend struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	suppliers map[string]domain.Supplier
	returns   []domain.Return
	updates   int
	// supplierFailures makes the next n UpdateSupplier calls fail.
	supplierFailures int
}

func newFakeBackend(products ...domain.Product) *fakeBackend {
	f := &fakeBackend{products: map[string]domain.Product{}, suppliers: map[string]domain.Supplier{}}
	for _, p := range products {
		f.products[p.Code] = p
	}
	return f
}

func (f *fakeBackend) GetProduct(ctx context.Context, code string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[code]
	if !ok {
		return domain.Product{}, &remote.Error{Status: 404}
	}
	return p, nil
}

func (f *fakeBackend) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.Code] = p
	return p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.products[p.Code] = p
	return p, nil
}

func (f *fakeBackend) CreateReturn(ctx context.Context, r domain.Return) (domain.Return, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = "ret-1"
	f.returns = append(f.returns, r)
	return r, nil
}

func (f *fakeBackend) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.suppliers[id]
	if !ok {
		return domain.Supplier{}, &remote.Error{Status: 404}
	}
	return s, nil
}

func (f *fakeBackend) UpdateSupplier(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.supplierFailures > 0 {
		f.supplierFailures--
		return domain.Supplier{}, &remote.Error{Status: 500, Message: "database is locked"}
	}
	f.suppliers[s.ID] = s
	return s, nil
}

// fakeProgress marks lines on the cart it was given, as the store would.
type fakeProgress struct {
	cart *domain.Cart
}

func (p fakeProgress) MarkStocked(ctx context.Context, cartID, productCode string) error {
	for i := range p.cart.Lines {
		if p.cart.Lines[i].ProductCode == productCode {
			p.cart.Lines[i].Stocked = true
		}
	}
	return nil
}
