package store

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"stockdesk/m/domain"
)

const (
	keyShopName      = "shop_name"
	keyShopAddress   = "shop_address"
	keyShopPhone     = "shop_phone"
	keyReceiptFooter = "receipt_footer"
	keyCurrency      = "currency"
	keyReturnPIN     = "return_pin_hash"
)

// DefaultSettings is what a fresh install shows.
var DefaultSettings = domain.ShopSettings{
	Name:          "My Shop",
	ReceiptFooter: "Thank you for your purchase!",
	Currency:      "Rs.",
}

func (s *Store) values(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, value FROM shop_settings`); err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Settings returns the shop display settings, falling back to the defaults
// for keys never written.
func (s *Store) Settings(ctx context.Context) (domain.ShopSettings, error) {
	vals, err := s.values(ctx)
	if err != nil {
		return domain.ShopSettings{}, err
	}
	settings := DefaultSettings
	if v, ok := vals[keyShopName]; ok {
		settings.Name = v
	}
	if v, ok := vals[keyShopAddress]; ok {
		settings.Address = v
	}
	if v, ok := vals[keyShopPhone]; ok {
		settings.Phone = v
	}
	if v, ok := vals[keyReceiptFooter]; ok {
		settings.ReceiptFooter = v
	}
	if v, ok := vals[keyCurrency]; ok {
		settings.Currency = v
	}
	settings.ReturnPINSet = vals[keyReturnPIN] != ""
	return settings, nil
}

// PutSettings overwrites the display settings. The return PIN is managed
// separately and left untouched.
func (s *Store) PutSettings(ctx context.Context, settings domain.ShopSettings) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	pairs := [][2]string{
		{keyShopName, settings.Name},
		{keyShopAddress, settings.Address},
		{keyShopPhone, settings.Phone},
		{keyReceiptFooter, settings.ReceiptFooter},
		{keyCurrency, settings.Currency},
	}
	for _, p := range pairs {
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO shop_settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`), p[0], p[1]); err != nil {
			return errors.Wrapf(err, "save %s", p[0])
		}
	}
	return tx.Commit()
}

// SetReturnPIN stores a bcrypt hash of pin. An empty pin removes the
// requirement.
func (s *Store) SetReturnPIN(ctx context.Context, pin string) error {
	if pin == "" {
		_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM shop_settings WHERE key = ?`), keyReturnPIN)
		return errors.Wrap(err, "clear return pin")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash return pin")
	}
	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO shop_settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`), keyReturnPIN, string(hashed))
	return errors.Wrap(err, "save return pin")
}

// CheckReturnPIN reports whether pin authorises a return. Any pin passes
// when none is configured.
func (s *Store) CheckReturnPIN(ctx context.Context, pin string) (bool, error) {
	vals, err := s.values(ctx)
	if err != nil {
		return false, err
	}
	hash := vals[keyReturnPIN]
	if hash == "" {
		return true, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil, nil
}
