package domain

// Payment is a confirmed checkout as stored by the backend. InvoiceNo is
// assigned by the backend on creation.
type Payment struct {
	InvoiceNo string        `json:"invoice_no,omitempty"`
	Cashier   string        `json:"cashier"`
	Lines     []PaymentLine `json:"lines"`
	Subtotal  float64       `json:"subtotal"`
	Discount  float64       `json:"discount"`
	Total     float64       `json:"total"`
	Tendered  float64       `json:"tendered"`
	Change    float64       `json:"change"`
	Due       float64       `json:"due"`
	CreatedAt string        `json:"created_at"`
}

type PaymentLine struct {
	ProductCode string  `json:"product_code"`
	Name        string  `json:"name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	LineTotal   float64 `json:"line_total"`
}

type Return struct {
	ID          string `json:"id,omitempty"`
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	Reason      string `json:"reason"`
	Actor       string `json:"actor"`
	CreatedAt   string `json:"created_at"`
}
