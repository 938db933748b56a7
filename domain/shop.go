package domain

type ShopSettings struct {
	Name          string `json:"name" validate:"max=200"`
	Address       string `json:"address"`
	Phone         string `json:"phone" validate:"max=32"`
	ReceiptFooter string `json:"receipt_footer"`
	Currency      string `json:"currency" validate:"max=8"`
	ReturnPINSet  bool   `json:"return_pin_set"`
}

type Session struct {
	ID          string `db:"id"`
	Username    string `db:"username"`
	Role        string `db:"role"`
	RemoteToken string `db:"remote_token"`
	CreatedAt   int64  `db:"created_at"`
	ExpiresAt   int64  `db:"expires_at"`
}
