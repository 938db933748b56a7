package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stockdesk/m/domain"
)

// CreateSession stores a new session holding the backend token.
func (s *Store) CreateSession(ctx context.Context, username, role, remoteToken string, ttl time.Duration) (domain.Session, error) {
	now := time.Now()
	sess := domain.Session{
		ID:          uuid.NewString(),
		Username:    username,
		Role:        role,
		RemoteToken: remoteToken,
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(ttl).Unix(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO sessions (id, username, role, remote_token, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`),
		sess.ID, sess.Username, sess.Role, sess.RemoteToken, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return domain.Session{}, errors.Wrap(err, "insert session")
	}
	return sess, nil
}

// Session returns a live session. Expired sessions are reported as not found.
func (s *Store) Session(ctx context.Context, id string) (domain.Session, error) {
	var sess domain.Session
	err := s.db.GetContext(ctx, &sess, s.q(`SELECT id, username, role, remote_token, created_at, expires_at FROM sessions WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, errors.Wrap(err, "load session")
	}
	if sess.ExpiresAt <= time.Now().Unix() {
		return domain.Session{}, ErrNotFound
	}
	return sess, nil
}

// DeleteSession removes the session and every cart it opened.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM cart_lines WHERE cart_id IN (SELECT id FROM carts WHERE session_id = ?)`), id); err != nil {
		return errors.Wrap(err, "delete session cart lines")
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM carts WHERE session_id = ?`), id); err != nil {
		return errors.Wrap(err, "delete session carts")
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return tx.Commit()
}

// PurgeExpiredSessions drops sessions that expired before now and returns
// how many were removed, also when it stops early on an error.
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.q(`SELECT id FROM sessions WHERE expires_at <= ? ORDER BY id`), now.Unix()); err != nil {
		return 0, errors.Wrap(err, "list expired sessions")
	}
	for i, id := range ids {
		if err := s.DeleteSession(ctx, id); err != nil {
			return int64(i), err
		}
	}
	return int64(len(ids)), nil
}
