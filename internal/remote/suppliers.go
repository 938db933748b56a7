package remote

import (
	"context"
	"net/http"

	"stockdesk/m/domain"
)

func (s *Session) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := s.do(ctx, call{method: http.MethodGet, path: "/suppliers", out: &out})
	return out, err
}

func (s *Session) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	var out domain.Supplier
	err := s.do(ctx, call{method: http.MethodGet, path: "/suppliers/{id}", params: map[string]string{"id": id}, out: &out})
	return out, err
}

func (s *Session) CreateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	var out domain.Supplier
	err := s.do(ctx, call{method: http.MethodPost, path: "/suppliers", body: sup, out: &out})
	return out, err
}

func (s *Session) UpdateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	var out domain.Supplier
	err := s.do(ctx, call{method: http.MethodPut, path: "/suppliers/{id}", params: map[string]string{"id": sup.ID}, body: sup, out: &out})
	return out, err
}
