// Package reports derives figures the backend does not store: supplier
// balances, monthly chart series and the dashboard summary.
package reports

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"stockdesk/m/domain"
)

// SupplierCost is the buying cost of everything received from s.
func SupplierCost(s domain.Supplier) float64 {
	return supplierCost(s).InexactFloat64()
}

func supplierCost(s domain.Supplier) decimal.Decimal {
	var cost decimal.Decimal
	for _, item := range s.Items {
		cost = cost.Add(decimal.NewFromFloat(item.BuyingPrice).Mul(decimal.NewFromInt(item.Quantity)))
	}
	return cost.Round(2)
}

// AmountDue is cost(items) minus total payments. It is negative when the
// supplier has been overpaid.
func AmountDue(s domain.Supplier) float64 {
	return supplierCost(s).Sub(decimal.NewFromFloat(s.TotalPayments)).Round(2).InexactFloat64()
}

// SupplierBalance is a supplier row as the supplier list shows it.
type SupplierBalance struct {
	domain.Supplier
	Cost      float64 `json:"cost"`
	AmountDue float64 `json:"amount_due"`
}

func Balances(suppliers []domain.Supplier) []SupplierBalance {
	out := make([]SupplierBalance, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, SupplierBalance{Supplier: s, Cost: SupplierCost(s), AmountDue: AmountDue(s)})
	}
	return out
}

// Point is one dated amount fed to Monthly.
type Point struct {
	Date   string
	Amount float64
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Monthly buckets points into the twelve months of year. Dates are parsed
// leniently; points with unparseable dates or outside the year are skipped.
func Monthly(points []Point, year int, loc *time.Location) []MonthTotal {
	totals := make([]decimal.Decimal, 12)
	out := make([]MonthTotal, 12)
	for i := range out {
		out[i].Month = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, loc).Format("2006-01")
	}
	for _, p := range points {
		t, err := dateparse.ParseIn(p.Date, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		if t.Year() != year {
			continue
		}
		m := int(t.Month()) - 1
		totals[m] = totals[m].Add(decimal.NewFromFloat(p.Amount))
		out[m].Count++
	}
	for i := range out {
		out[i].Total = totals[i].Round(2).InexactFloat64()
	}
	return out
}

func PaymentPoints(payments []domain.Payment) []Point {
	out := make([]Point, 0, len(payments))
	for _, p := range payments {
		out = append(out, Point{Date: p.CreatedAt, Amount: p.Total})
	}
	return out
}

func MaintenancePoints(records []domain.MaintenanceRecord) []Point {
	out := make([]Point, 0, len(records))
	for _, r := range records {
		out = append(out, Point{Date: r.Date, Amount: r.Price})
	}
	return out
}
