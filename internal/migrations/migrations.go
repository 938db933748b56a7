package migrations

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Run creates the local schema. The same statements run on sqlite and
// postgres: ids are text and timestamps are unix seconds.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            role TEXT NOT NULL,
            remote_token TEXT NOT NULL,
            created_at BIGINT NOT NULL,
            expires_at BIGINT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS shop_settings (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS carts (
            id TEXT PRIMARY KEY,
            session_id TEXT NOT NULL,
            kind TEXT NOT NULL,
            supplier_id TEXT NOT NULL DEFAULT '',
            created_at BIGINT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
            cart_id TEXT NOT NULL,
            product_code TEXT NOT NULL,
            name TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            unit_price DOUBLE PRECISION NOT NULL,
            sell_price DOUBLE PRECISION NOT NULL DEFAULT 0,
            quantity BIGINT NOT NULL,
            discount DOUBLE PRECISION NOT NULL DEFAULT 0,
            stocked BOOLEAN NOT NULL DEFAULT FALSE,
            PRIMARY KEY (cart_id, product_code)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_carts_created_at ON carts (created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "migration failed")
		}
	}
	return nil
}
