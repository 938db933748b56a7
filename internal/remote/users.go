package remote

import (
	"context"
	"net/http"

	"stockdesk/m/domain"
)

func (s *Session) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := s.do(ctx, call{method: http.MethodGet, path: "/users", out: &out})
	return out, err
}

func (s *Session) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	var out domain.User
	err := s.do(ctx, call{method: http.MethodPut, path: "/users/{id}", params: map[string]string{"id": u.ID}, body: u, out: &out})
	return out, err
}

func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, call{method: http.MethodDelete, path: "/users/{id}", params: map[string]string{"id": id}})
}
