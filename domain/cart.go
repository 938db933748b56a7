package domain

const (
	CartSale = "sale"
	CartGRN  = "grn"
)

// Cart lives only until it is checked out, received or cancelled.
type Cart struct {
	ID         string     `db:"id" json:"id"`
	SessionID  string     `db:"session_id" json:"-"`
	Kind       string     `db:"kind" json:"kind"`
	SupplierID string     `db:"supplier_id" json:"supplier_id,omitempty"`
	CreatedAt  int64      `db:"created_at" json:"created_at"`
	Lines      []CartLine `db:"-" json:"lines"`
}

type CartLine struct {
	CartID      string  `db:"cart_id" json:"-"`
	ProductCode string  `db:"product_code" json:"product_code"`
	Name        string  `db:"name" json:"name"`
	Category    string  `db:"category" json:"category,omitempty"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	SellPrice   float64 `db:"sell_price" json:"sell_price,omitempty"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	Discount    float64 `db:"discount" json:"discount"`
	// Stocked is set on GRN lines whose product has been restocked.
	Stocked     bool    `db:"stocked" json:"stocked,omitempty"`
}
