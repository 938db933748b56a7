// Package inventory applies catalog changes on behalf of a signed-in user
// and keeps each product's change history.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"stockdesk/m/domain"
	"stockdesk/m/internal/remote"
	"stockdesk/m/internal/validate"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Backend is the part of the remote API the catalog needs.
type Backend interface {
	GetProduct(ctx context.Context, code string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	CreateReturn(ctx context.Context, r domain.Return) (domain.Return, error)
	GetSupplier(ctx context.Context, id string) (domain.Supplier, error)
	UpdateSupplier(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
}

type Catalog struct {
	backend Backend
	now     func() time.Time
}

func New(b Backend) *Catalog {
	return &Catalog{backend: b, now: time.Now}
}

// Patch holds the editable product fields; nil means unchanged.
type Patch struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	BuyingPrice  *float64 `json:"buying_price"`
	SellingPrice *float64 `json:"selling_price"`
	Stock        *int64   `json:"stock"`
	Supplier     *string  `json:"supplier"`
}

func (p Patch) apply(prod domain.Product) domain.Product {
	if p.Name != nil {
		prod.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		prod.Category = strings.TrimSpace(*p.Category)
	}
	if p.BuyingPrice != nil {
		prod.BuyingPrice = *p.BuyingPrice
	}
	if p.SellingPrice != nil {
		prod.SellingPrice = *p.SellingPrice
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.Supplier != nil {
		prod.Supplier = strings.TrimSpace(*p.Supplier)
	}
	return prod
}

func (c *Catalog) stamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

// Create validates and submits a new product with its first history entry.
func (c *Catalog) Create(ctx context.Context, p domain.Product, actor string) (domain.Product, error) {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Supplier = strings.TrimSpace(p.Supplier)
	if err := validate.Struct(p); err != nil {
		return domain.Product{}, err
	}
	if p.CreatedAt == "" {
		p.CreatedAt = c.stamp()
	}
	p.History = append(p.History, domain.ChangeEntry{
		Timestamp:  c.stamp(),
		Actor:      actor,
		Field:      "product",
		NewValue:   p.Name,
		ChangeType: domain.ChangeCreate,
	})
	return c.backend.CreateProduct(ctx, p)
}

// Edit applies patch to the stored product. When nothing changed the
// product is returned without a backend write.
func (c *Catalog) Edit(ctx context.Context, code string, patch Patch, actor string) (domain.Product, error) {
	current, err := c.backend.GetProduct(ctx, code)
	if err != nil {
		return domain.Product{}, err
	}
	updated := patch.apply(current)
	if err := validate.Struct(updated); err != nil {
		return domain.Product{}, err
	}
	changes := Diff(current, updated, actor, domain.ChangeEdit, c.now())
	if len(changes) == 0 {
		return current, nil
	}
	updated.History = append(updated.History, changes...)
	return c.backend.UpdateProduct(ctx, updated)
}

// AdjustStock moves stock by delta. The result may not go below zero.
func (c *Catalog) AdjustStock(ctx context.Context, code string, delta int64, actor, changeType string) (domain.Product, error) {
	current, err := c.backend.GetProduct(ctx, code)
	if err != nil {
		return domain.Product{}, err
	}
	return c.adjust(ctx, current, delta, actor, changeType)
}

func (c *Catalog) adjust(ctx context.Context, current domain.Product, delta int64, actor, changeType string) (domain.Product, error) {
	if delta == 0 {
		return current, nil
	}
	updated := current
	updated.Stock += delta
	if updated.Stock < 0 {
		return domain.Product{}, errors.Wrapf(ErrInsufficientStock, "%s has %d in stock", current.Code, current.Stock)
	}
	updated.History = append(updated.History, Diff(current, updated, actor, changeType, c.now())...)
	return c.backend.UpdateProduct(ctx, updated)
}

// Return puts qty units back on the shelf and records the return.
func (c *Catalog) Return(ctx context.Context, code string, qty int64, reason, actor string) (domain.Return, error) {
	if err := validate.Var("quantity", qty, "gt=0"); err != nil {
		return domain.Return{}, err
	}
	if _, err := c.AdjustStock(ctx, code, qty, actor, domain.ChangeReturn); err != nil {
		return domain.Return{}, err
	}
	return c.backend.CreateReturn(ctx, domain.Return{
		ProductCode: code,
		Quantity:    qty,
		Reason:      strings.TrimSpace(reason),
		Actor:       actor,
		CreatedAt:   c.stamp(),
	})
}

// Progress records GRN lines whose product write went through.
type Progress interface {
	MarkStocked(ctx context.Context, cartID, productCode string) error
}

// Received is the outcome of booking a goods-received cart.
type Received struct {
	Supplier domain.Supplier  `json:"supplier"`
	Products []domain.Product `json:"products"`
}

// ReceiveGoods books a GRN cart: every line restocks its product, or creates
// it when the code is unknown, and the lines are appended to the supplier's
// purchased items. Each line is marked through progress as soon as its
// product is written; lines already marked are not restocked again, so a
// booking that failed partway can be repeated with the reloaded cart.
func (c *Catalog) ReceiveGoods(ctx context.Context, cart domain.Cart, actor string, progress Progress) (Received, error) {
	if cart.Kind != domain.CartGRN {
		return Received{}, errors.New("cart is not a goods-received cart")
	}
	if len(cart.Lines) == 0 {
		return Received{}, errors.New("no items in cart")
	}
	supplier, err := c.backend.GetSupplier(ctx, cart.SupplierID)
	if err != nil {
		return Received{}, err
	}

	out := Received{Products: []domain.Product{}}
	for _, line := range cart.Lines {
		supplier.Items = append(supplier.Items, domain.PurchasedItem{
			Name:         line.Name,
			Category:     line.Category,
			Quantity:     line.Quantity,
			BuyingPrice:  line.UnitPrice,
			SellingPrice: line.SellPrice,
		})
		if line.Stocked {
			continue
		}

		current, err := c.backend.GetProduct(ctx, line.ProductCode)
		switch {
		case errors.Is(err, remote.ErrNotFound):
			created, err := c.Create(ctx, domain.Product{
				Code:         line.ProductCode,
				Name:         line.Name,
				Category:     line.Category,
				BuyingPrice:  line.UnitPrice,
				SellingPrice: line.SellPrice,
				Stock:        line.Quantity,
				Supplier:     supplier.Name,
			}, actor)
			if err != nil {
				return out, errors.Wrapf(err, "create %s", line.ProductCode)
			}
			out.Products = append(out.Products, created)
		case err != nil:
			return out, err
		default:
			updated := current
			updated.Stock += line.Quantity
			updated.BuyingPrice = line.UnitPrice
			if line.SellPrice > 0 {
				updated.SellingPrice = line.SellPrice
			}
			updated.Supplier = supplier.Name
			updated.History = append(updated.History, Diff(current, updated, actor, domain.ChangeGRN, c.now())...)
			saved, err := c.backend.UpdateProduct(ctx, updated)
			if err != nil {
				return out, errors.Wrapf(err, "restock %s", line.ProductCode)
			}
			out.Products = append(out.Products, saved)
		}

		if err := progress.MarkStocked(ctx, cart.ID, line.ProductCode); err != nil {
			return out, errors.Wrapf(err, "%s restocked but not marked", line.ProductCode)
		}
	}

	saved, err := c.backend.UpdateSupplier(ctx, supplier)
	if err != nil {
		return out, err
	}
	out.Supplier = saved
	return out, nil
}
