package remote

import (
	"context"
	"net/http"

	"stockdesk/m/domain"
)

func (s *Session) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := s.do(ctx, call{method: http.MethodGet, path: "/products", out: &out})
	return out, err
}

func (s *Session) GetProduct(ctx context.Context, code string) (domain.Product, error) {
	var out domain.Product
	err := s.do(ctx, call{method: http.MethodGet, path: "/products/{code}", params: map[string]string{"code": code}, out: &out})
	return out, err
}

func (s *Session) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var out domain.Product
	err := s.do(ctx, call{method: http.MethodPost, path: "/products", body: p, out: &out})
	return out, err
}

// UpdateProduct replaces the stored product, history included.
func (s *Session) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var out domain.Product
	err := s.do(ctx, call{method: http.MethodPut, path: "/products/{code}", params: map[string]string{"code": p.Code}, body: p, out: &out})
	return out, err
}

func (s *Session) DeleteProduct(ctx context.Context, code string) error {
	return s.do(ctx, call{method: http.MethodDelete, path: "/products/{code}", params: map[string]string{"code": code}})
}
