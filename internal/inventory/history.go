package inventory

import (
	"strconv"
	"time"

	"stockdesk/m/domain"
)

// Diff returns one entry per field that differs between old and updated.
// Code, timestamps and history itself are not compared.
func Diff(old, updated domain.Product, actor, changeType string, now time.Time) []domain.ChangeEntry {
	ts := now.UTC().Format(time.RFC3339)
	var out []domain.ChangeEntry
	add := func(field, before, after string) {
		if before == after {
			return
		}
		out = append(out, domain.ChangeEntry{
			Timestamp:  ts,
			Actor:      actor,
			Field:      field,
			OldValue:   before,
			NewValue:   after,
			ChangeType: changeType,
		})
	}
	add("name", old.Name, updated.Name)
	add("category", old.Category, updated.Category)
	add("buying_price", money(old.BuyingPrice), money(updated.BuyingPrice))
	add("selling_price", money(old.SellingPrice), money(updated.SellingPrice))
	add("stock", strconv.FormatInt(old.Stock, 10), strconv.FormatInt(updated.Stock, 10))
	add("supplier", old.Supplier, updated.Supplier)
	return out
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
