package checkout

import (
	"github.com/shopspring/decimal"

	"stockdesk/m/domain"
	"stockdesk/m/internal/validate"
)

// Line is a cart line with its computed amounts.
type Line struct {
	domain.CartLine
	Subtotal  float64 `json:"subtotal"`
	LineTotal float64 `json:"line_total"`
}

type Totals struct {
	Lines    []Line  `json:"lines"`
	Items    int64   `json:"items"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Compute prices every line and sums the cart. Amounts are rounded to
// cents per line, so Total is exactly the sum of line totals and equals
// Subtotal minus Discount.
func Compute(lines []domain.CartLine) Totals {
	var sub, disc decimal.Decimal
	out := Totals{Lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		ls := decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(l.Quantity)).Round(2)
		d := decimal.NewFromFloat(l.Discount).Round(2)
		sub = sub.Add(ls)
		disc = disc.Add(d)
		out.Items += l.Quantity
		out.Lines = append(out.Lines, Line{
			CartLine:  l,
			Subtotal:  ls.InexactFloat64(),
			LineTotal: ls.Sub(d).InexactFloat64(),
		})
	}
	out.Subtotal = sub.InexactFloat64()
	out.Discount = disc.InexactFloat64()
	out.Total = sub.Sub(disc).InexactFloat64()
	return out
}

// Settle splits a tendered amount into change (overpaid) or amount due
// (underpaid). At most one of the two is non-zero.
func Settle(total, tendered float64) (change, due float64) {
	diff := decimal.NewFromFloat(tendered).Sub(decimal.NewFromFloat(total)).Round(2)
	if diff.IsNegative() {
		return 0, diff.Neg().InexactFloat64()
	}
	return diff.InexactFloat64(), 0
}

// CheckLine validates a sale line against the stock on hand.
func CheckLine(line domain.CartLine, stock int64) error {
	if err := validate.Var("quantity", line.Quantity, "gt=0"); err != nil {
		return err
	}
	if err := validate.Var("discount", line.Discount, "gte=0"); err != nil {
		return err
	}
	sub := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(line.Quantity)).Round(2)
	if decimal.NewFromFloat(line.Discount).Round(2).GreaterThan(sub) {
		return &validate.FieldError{Field: "discount", Message: "discount cannot exceed the line subtotal"}
	}
	if line.Quantity > stock {
		return &validate.FieldError{Field: "quantity", Message: "quantity exceeds available stock"}
	}
	return nil
}
