package checkout

import (
	"bytes"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"stockdesk/m/domain"
)

const receiptWidth = 40

const receiptLayout = `{{center .Shop.Name}}
{{- with .Shop.Address}}
{{center .}}{{end}}
{{- with .Shop.Phone}}
{{center (print "Tel: " .)}}{{end}}
{{rule}}
Invoice: {{.Payment.InvoiceNo}}
Date:    {{.Payment.CreatedAt}}
Cashier: {{.Payment.Cashier}}
{{rule}}
{{range .Payment.Lines -}}
{{row .Name (money .LineTotal)}}
{{printf "  %d x %s" .Quantity (money .UnitPrice)}}{{if gt .Discount 0.0}}{{printf " less %s" (money .Discount)}}{{end}}
{{end -}}
{{rule}}
{{row "Subtotal" (money .Payment.Subtotal)}}
{{row "Discount" (money .Payment.Discount)}}
{{row "TOTAL" (money .Payment.Total)}}
{{row "Paid" (money .Payment.Tendered)}}
{{- if gt .Payment.Due 0.0}}
{{row "Amount due" (money .Payment.Due)}}
{{- else}}
{{row "Change" (money .Payment.Change)}}
{{- end}}
{{rule}}
{{- with .Shop.ReceiptFooter}}
{{center .}}{{end}}
`

// Receipt renders a fixed-width text receipt for a confirmed payment.
func Receipt(shop domain.ShopSettings, p domain.Payment) (string, error) {
	funcs := template.FuncMap{
		"center": center,
		"rule":   func() string { return strings.Repeat("-", receiptWidth) },
		"row":    row,
		"money": func(v float64) string {
			amount := decimal.NewFromFloat(v).StringFixed(2)
			if shop.Currency == "" {
				return amount
			}
			return shop.Currency + " " + amount
		},
	}
	tmpl, err := template.New("receipt").Funcs(funcs).Parse(receiptLayout)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Shop    domain.ShopSettings
		Payment domain.Payment
	}{shop, p})
	return buf.String(), err
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= receiptWidth {
		return s
	}
	return strings.Repeat(" ", (receiptWidth-n)/2) + s
}

// row puts left and right on one line, truncating left when needed.
func row(left, right string) string {
	room := receiptWidth - utf8.RuneCountInString(right) - 1
	if room < 1 {
		return left + " " + right
	}
	r := []rune(left)
	if len(r) > room {
		r = r[:room]
	}
	return string(r) + strings.Repeat(" ", receiptWidth-len(r)-utf8.RuneCountInString(right)) + right
}
