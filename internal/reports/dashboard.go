package reports

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"stockdesk/m/domain"
)

// LowStockThreshold marks products that need reordering.
const LowStockThreshold = 5

// Source is the part of the remote API the dashboard reads.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
}

type Dashboard struct {
	ProductCount   int              `json:"product_count"`
	LowStock       []domain.Product `json:"low_stock"`
	StockValue     float64          `json:"stock_value"`
	SupplierCount  int              `json:"supplier_count"`
	TotalDue       float64          `json:"total_due"`
	Sales          []MonthTotal     `json:"sales"`
	SalesThisYear  float64          `json:"sales_this_year"`
	MonthlyMean    float64          `json:"monthly_mean"`
	MonthlyMedian  float64          `json:"monthly_median"`
	InvoicesIssued int              `json:"invoices_issued"`
}

// BuildDashboard fetches products, suppliers and payments concurrently and
// summarises them for now's year.
func BuildDashboard(ctx context.Context, src Source, now time.Time) (Dashboard, error) {
	var (
		products  []domain.Product
		suppliers []domain.Supplier
		payments  []domain.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = src.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = src.ListSuppliers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = src.ListPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return Summarise(products, suppliers, payments, now), nil
}

func Summarise(products []domain.Product, suppliers []domain.Supplier, payments []domain.Payment, now time.Time) Dashboard {
	d := Dashboard{
		ProductCount:  len(products),
		SupplierCount: len(suppliers),
		LowStock:      []domain.Product{},
	}

	var value decimal.Decimal
	for _, p := range products {
		value = value.Add(decimal.NewFromFloat(p.BuyingPrice).Mul(decimal.NewFromInt(p.Stock)))
		if p.Stock <= LowStockThreshold {
			p.History = nil
			d.LowStock = append(d.LowStock, p)
		}
	}
	d.StockValue = value.Round(2).InexactFloat64()

	var due decimal.Decimal
	for _, s := range suppliers {
		if amount := AmountDue(s); amount > 0 {
			due = due.Add(decimal.NewFromFloat(amount))
		}
	}
	d.TotalDue = due.Round(2).InexactFloat64()

	d.Sales = Monthly(PaymentPoints(payments), now.Year(), now.Location())
	// Months still ahead are not part of the mean or median.
	series := make(stats.Float64Data, 0, len(d.Sales))
	for i, m := range d.Sales {
		d.InvoicesIssued += m.Count
		if i < int(now.Month()) {
			series = append(series, m.Total)
		}
	}
	sum, _ := series.Sum()
	mean, _ := series.Mean()
	median, _ := series.Median()
	d.SalesThisYear = decimal.NewFromFloat(sum).Round(2).InexactFloat64()
	d.MonthlyMean = decimal.NewFromFloat(mean).Round(2).InexactFloat64()
	d.MonthlyMedian = decimal.NewFromFloat(median).Round(2).InexactFloat64()
	return d
}
