package domain

type Supplier struct {
	ID            string          `json:"id" csv:"id"`
	Name          string          `json:"name" csv:"name" validate:"required,max=200"`
	BusinessName  string          `json:"business_name" csv:"business_name" validate:"max=200"`
	Phone         string          `json:"phone" csv:"phone" validate:"max=32"`
	Address       string          `json:"address" csv:"address"`
	Items         []PurchasedItem `json:"items" csv:"-" validate:"dive"`
	TotalPayments float64         `json:"total_payments" csv:"total_payments" validate:"gte=0"`
}

// PurchasedItem is one line received from a supplier.
type PurchasedItem struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category"`
	Quantity     int64   `json:"quantity" validate:"gte=0"`
	BuyingPrice  float64 `json:"buying_price" validate:"gte=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
}
