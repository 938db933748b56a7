package domain

// Change types recorded in a product's history.
const (
	ChangeCreate = "create"
	ChangeEdit   = "edit"
	ChangeStock  = "stock"
	ChangeReturn = "return"
	ChangeGRN    = "grn"
)

// Product mirrors the backend catalog record. Code is the GRN item code.
type Product struct {
	Code         string        `json:"code" csv:"code" validate:"required,max=64"`
	Name         string        `json:"name" csv:"name" validate:"required,max=200"`
	Category     string        `json:"category" csv:"category" validate:"max=100"`
	BuyingPrice  float64       `json:"buying_price" csv:"buying_price" validate:"gte=0"`
	SellingPrice float64       `json:"selling_price" csv:"selling_price" validate:"gte=0"`
	Stock        int64         `json:"stock" csv:"stock" validate:"gte=0"`
	Supplier     string        `json:"supplier" csv:"supplier"`
	CreatedAt    string        `json:"created_at" csv:"created_at"`
	History      []ChangeEntry `json:"history,omitempty" csv:"-"`
}

type ChangeEntry struct {
	Timestamp  string `json:"timestamp"`
	Actor      string `json:"actor"`
	Field      string `json:"field"`
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
	ChangeType string `json:"change_type"`
}
