package remote

import (
	"context"
	"net/http"

	"stockdesk/m/domain"
)

func (s *Session) ListMaintenance(ctx context.Context) ([]domain.MaintenanceRecord, error) {
	var out []domain.MaintenanceRecord
	err := s.do(ctx, call{method: http.MethodGet, path: "/maintenance", out: &out})
	return out, err
}

func (s *Session) CreateMaintenance(ctx context.Context, rec domain.MaintenanceRecord) (domain.MaintenanceRecord, error) {
	var out domain.MaintenanceRecord
	err := s.do(ctx, call{method: http.MethodPost, path: "/maintenance", body: rec, out: &out})
	return out, err
}

func (s *Session) UpdateMaintenance(ctx context.Context, rec domain.MaintenanceRecord) (domain.MaintenanceRecord, error) {
	var out domain.MaintenanceRecord
	err := s.do(ctx, call{method: http.MethodPut, path: "/maintenance/{id}", params: map[string]string{"id": rec.ID}, body: rec, out: &out})
	return out, err
}

func (s *Session) DeleteMaintenance(ctx context.Context, id string) error {
	return s.do(ctx, call{method: http.MethodDelete, path: "/maintenance/{id}", params: map[string]string{"id": id}})
}

// CreatePayment records a confirmed checkout. The returned payment carries
// the invoice number assigned by the backend.
func (s *Session) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	var out domain.Payment
	err := s.do(ctx, call{method: http.MethodPost, path: "/payments", body: p, out: &out})
	return out, err
}

func (s *Session) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	err := s.do(ctx, call{method: http.MethodGet, path: "/payments", out: &out})
	return out, err
}

func (s *Session) CreateReturn(ctx context.Context, r domain.Return) (domain.Return, error) {
	var out domain.Return
	err := s.do(ctx, call{method: http.MethodPost, path: "/returns", body: r, out: &out})
	return out, err
}

func (s *Session) ListReturns(ctx context.Context) ([]domain.Return, error) {
	var out []domain.Return
	err := s.do(ctx, call{method: http.MethodGet, path: "/returns", out: &out})
	return out, err
}
