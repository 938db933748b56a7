package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stockdesk/m/domain"
)

// CreateCart opens an empty cart for a session. supplierID is only set for
// goods-received carts.
func (s *Store) CreateCart(ctx context.Context, sessionID, kind, supplierID string) (domain.Cart, error) {
	cart := domain.Cart{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Kind:       kind,
		SupplierID: supplierID,
		CreatedAt:  time.Now().Unix(),
		Lines:      []domain.CartLine{},
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO carts (id, session_id, kind, supplier_id, created_at) VALUES (?, ?, ?, ?, ?)`),
		cart.ID, cart.SessionID, cart.Kind, cart.SupplierID, cart.CreatedAt)
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "insert cart")
	}
	return cart, nil
}

// Cart loads a cart with its lines. A cart belonging to another session is
// reported as not found.
func (s *Store) Cart(ctx context.Context, sessionID, id string) (domain.Cart, error) {
	var cart domain.Cart
	err := s.db.GetContext(ctx, &cart, s.q(`SELECT id, session_id, kind, supplier_id, created_at FROM carts WHERE id = ? AND session_id = ?`), id, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "load cart")
	}
	cart.Lines = []domain.CartLine{}
	if err := s.db.SelectContext(ctx, &cart.Lines, s.q(`SELECT cart_id, product_code, name, category, unit_price, sell_price, quantity, discount, stocked FROM cart_lines WHERE cart_id = ? ORDER BY product_code`), id); err != nil {
		return domain.Cart{}, errors.Wrap(err, "load cart lines")
	}
	return cart, nil
}

// PutLine inserts or replaces the line for line.ProductCode.
func (s *Store) PutLine(ctx context.Context, line domain.CartLine) error {
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO cart_lines (cart_id, product_code, name, category, unit_price, sell_price, quantity, discount)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (cart_id, product_code) DO UPDATE SET
            name = excluded.name,
            category = excluded.category,
            unit_price = excluded.unit_price,
            sell_price = excluded.sell_price,
            quantity = excluded.quantity,
            discount = excluded.discount`),
		line.CartID, line.ProductCode, line.Name, line.Category, line.UnitPrice, line.SellPrice, line.Quantity, line.Discount)
	return errors.Wrap(err, "save cart line")
}

// MarkStocked flags a GRN line as applied to its product.
func (s *Store) MarkStocked(ctx context.Context, cartID, productCode string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE cart_lines SET stocked = ? WHERE cart_id = ? AND product_code = ?`), true, cartID, productCode)
	if err != nil {
		return errors.Wrap(err, "mark cart line stocked")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RemoveLine(ctx context.Context, cartID, productCode string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM cart_lines WHERE cart_id = ? AND product_code = ?`), cartID, productCode)
	if err != nil {
		return errors.Wrap(err, "delete cart line")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCart discards a cart and its lines.
func (s *Store) DeleteCart(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM cart_lines WHERE cart_id = ?`), id); err != nil {
		return errors.Wrap(err, "delete cart lines")
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM carts WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return tx.Commit()
}

// PurgeCartsBefore drops carts opened before cutoff. On error the count
// covers the carts already dropped.
func (s *Store) PurgeCartsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.q(`SELECT id FROM carts WHERE created_at < ? ORDER BY id`), cutoff.Unix()); err != nil {
		return 0, errors.Wrap(err, "list stale carts")
	}
	for i, id := range ids {
		if err := s.DeleteCart(ctx, id); err != nil {
			return int64(i), err
		}
	}
	return int64(len(ids)), nil
}
