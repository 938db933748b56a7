// Package store keeps the state the console holds locally: login sessions,
// shop display settings and open carts.
package store

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}
