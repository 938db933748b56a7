// Package checkout prices carts, settles payments and prints receipts.
package checkout

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"stockdesk/m/domain"
	"stockdesk/m/internal/inventory"
)

// Backend is the part of the remote API a checkout needs.
type Backend interface {
	GetProduct(ctx context.Context, code string) (domain.Product, error)
	CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error)
}

// StockKeeper moves stock and records the change on the product.
type StockKeeper interface {
	AdjustStock(ctx context.Context, code string, delta int64, actor, changeType string) (domain.Product, error)
}

type Register struct {
	backend Backend
	stock   StockKeeper
	now     func() time.Time
}

func NewRegister(b Backend, stock StockKeeper) *Register {
	return &Register{backend: b, stock: stock, now: time.Now}
}

// Sale is a confirmed checkout with its printable receipt. StockErrors
// lists the lines whose stock could not be taken off after the payment
// was recorded; those products need a manual correction.
type Sale struct {
	Payment     domain.Payment `json:"payment"`
	Receipt     string         `json:"receipt"`
	StockErrors []StockError   `json:"stock_errors,omitempty"`
}

type StockError struct {
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	Message     string `json:"message"`
}

// Confirm charges a sale cart. Every line is checked against current stock
// before anything is written; then the payment is recorded and stock is
// taken off each product. Once the payment exists Confirm no longer fails:
// stock failures are reported on the Sale and the caller must discard the
// cart either way.
func (r *Register) Confirm(ctx context.Context, cart domain.Cart, tendered float64, cashier string, shop domain.ShopSettings) (Sale, error) {
	if cart.Kind != domain.CartSale {
		return Sale{}, errors.New("cart is not a sale cart")
	}
	if len(cart.Lines) == 0 {
		return Sale{}, errors.New("no items in cart")
	}
	if tendered < 0 {
		return Sale{}, errors.New("tendered amount must be 0 or greater")
	}

	for _, line := range cart.Lines {
		p, err := r.backend.GetProduct(ctx, line.ProductCode)
		if err != nil {
			return Sale{}, errors.Wrapf(err, "load %s", line.ProductCode)
		}
		if line.Quantity > p.Stock {
			return Sale{}, errors.Wrapf(inventory.ErrInsufficientStock, "%s has %d in stock", p.Code, p.Stock)
		}
		if err := CheckLine(line, p.Stock); err != nil {
			return Sale{}, errors.Wrap(err, line.ProductCode)
		}
	}

	totals := Compute(cart.Lines)
	change, due := Settle(totals.Total, tendered)
	payment := domain.Payment{
		Cashier:   cashier,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Total:     totals.Total,
		Tendered:  tendered,
		Change:    change,
		Due:       due,
		CreatedAt: r.now().UTC().Format(time.RFC3339),
	}
	for _, l := range totals.Lines {
		payment.Lines = append(payment.Lines, domain.PaymentLine{
			ProductCode: l.ProductCode,
			Name:        l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			LineTotal:   l.LineTotal,
		})
	}

	saved, err := r.backend.CreatePayment(ctx, payment)
	if err != nil {
		return Sale{}, errors.Wrap(err, "record payment")
	}

	sale := Sale{Payment: saved}
	for _, line := range cart.Lines {
		if _, err := r.stock.AdjustStock(ctx, line.ProductCode, -line.Quantity, cashier, domain.ChangeStock); err != nil {
			sale.StockErrors = append(sale.StockErrors, StockError{
				ProductCode: line.ProductCode,
				Quantity:    line.Quantity,
				Message:     err.Error(),
			})
		}
	}

	// The template only fails on a broken layout; the payment stands anyway.
	sale.Receipt, _ = Receipt(shop, saved)
	return sale, nil
}
