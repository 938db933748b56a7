package store

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"stockdesk/m/domain"
	"stockdesk/m/internal/database"
	"stockdesk/m/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.CreateSession(ctx, "alice", domain.RoleAdmin, "remote-token", time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Session(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" || got.RemoteToken != "remote-token" {
		t.Errorf("unexpected session %+v", got)
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Session(ctx, sess.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestExpiredSessionIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.CreateSession(ctx, "bob", domain.RoleUser, "tok", -time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Session(ctx, sess.ID); err != ErrNotFound {
		t.Errorf("expected expired session to be ErrNotFound, got %v", err)
	}

	live, _ := s.CreateSession(ctx, "carol", domain.RoleUser, "tok", time.Hour)
	n, err := s.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged session, got %d", n)
	}
	if _, err := s.Session(ctx, live.ID); err != nil {
		t.Errorf("live session should survive purge: %v", err)
	}
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if got != DefaultSettings {
		t.Errorf("expected defaults, got %+v", got)
	}

	want := domain.ShopSettings{Name: "Corner Store", Address: "1 Main St", Phone: "555", ReceiptFooter: "Bye", Currency: "$"}
	if err := s.PutSettings(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Second write exercises the upsert path.
	want.Name = "Corner Store 2"
	if err := s.PutSettings(ctx, want); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, _ = s.Settings(ctx)
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestReturnPIN(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.CheckReturnPIN(ctx, "")
	if err != nil || !ok {
		t.Fatalf("no pin configured should pass, got %v %v", ok, err)
	}

	if err := s.SetReturnPIN(ctx, "4321"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	if ok, _ := s.CheckReturnPIN(ctx, "1234"); ok {
		t.Error("wrong pin accepted")
	}
	if ok, _ := s.CheckReturnPIN(ctx, "4321"); !ok {
		t.Error("correct pin rejected")
	}
	settings, _ := s.Settings(ctx)
	if !settings.ReturnPINSet {
		t.Error("expected ReturnPINSet")
	}

	if err := s.SetReturnPIN(ctx, ""); err != nil {
		t.Fatalf("clear pin: %v", err)
	}
	if ok, _ := s.CheckReturnPIN(ctx, "anything"); !ok {
		t.Error("cleared pin should pass")
	}
}

func TestCartLines(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cart, err := s.CreateCart(ctx, "sess-1", domain.CartSale, "")
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}

	line := domain.CartLine{CartID: cart.ID, ProductCode: "GRN-1", Name: "Soap", UnitPrice: 2.5, Quantity: 2}
	if err := s.PutLine(ctx, line); err != nil {
		t.Fatalf("put line: %v", err)
	}
	line.Quantity = 3
	line.Discount = 1
	if err := s.PutLine(ctx, line); err != nil {
		t.Fatalf("update line: %v", err)
	}
	if err := s.PutLine(ctx, domain.CartLine{CartID: cart.ID, ProductCode: "GRN-2", Name: "Tea", UnitPrice: 4, Quantity: 1}); err != nil {
		t.Fatalf("put second line: %v", err)
	}

	got, err := s.Cart(ctx, "sess-1", cart.ID)
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].Quantity != 3 || got.Lines[0].Discount != 1 {
		t.Errorf("line not updated: %+v", got.Lines[0])
	}

	if _, err := s.Cart(ctx, "other-session", cart.ID); err != ErrNotFound {
		t.Errorf("cart must not be visible to other sessions, got %v", err)
	}

	if err := s.RemoveLine(ctx, cart.ID, "GRN-2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveLine(ctx, cart.ID, "GRN-2"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound removing twice, got %v", err)
	}

	if err := s.DeleteCart(ctx, cart.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Cart(ctx, "sess-1", cart.ID); err != ErrNotFound {
		t.Errorf("expected deleted cart to be gone, got %v", err)
	}
}

func TestPurgeCartsBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cart, _ := s.CreateCart(ctx, "sess", domain.CartGRN, "sup-1")
	n, err := s.PurgeCartsBefore(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("fresh cart purged: n=%d err=%v", n, err)
	}
	n, err = s.PurgeCartsBefore(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("expected 1 purged cart, n=%d err=%v", n, err)
	}
	if _, err := s.Cart(ctx, "sess", cart.ID); err != ErrNotFound {
		t.Errorf("purged cart still present: %v", err)
	}
}

func TestMarkStocked(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cart, _ := s.CreateCart(ctx, "sess", domain.CartGRN, "sup-1")
	line := domain.CartLine{CartID: cart.ID, ProductCode: "GRN-1", Name: "Soap", UnitPrice: 1, Quantity: 5}
	if err := s.PutLine(ctx, line); err != nil {
		t.Fatalf("put line: %v", err)
	}
	if err := s.MarkStocked(ctx, cart.ID, "GRN-1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := s.MarkStocked(ctx, cart.ID, "GRN-404"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown line, got %v", err)
	}

	line.Quantity = 7
	if err := s.PutLine(ctx, line); err != nil {
		t.Fatalf("update line: %v", err)
	}
	got, err := s.Cart(ctx, "sess", cart.ID)
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !got.Lines[0].Stocked || got.Lines[0].Quantity != 7 {
		t.Errorf("stocked flag lost on update: %+v", got.Lines[0])
	}
}

// blockDelete makes deleting the row with id from table fail.
func blockDelete(t *testing.T, s *Store, table, id string) {
	t.Helper()
	stmt := `CREATE TRIGGER keep_` + table + ` BEFORE DELETE ON ` + table +
		` WHEN old.id = '` + id + `' BEGIN SELECT RAISE(ABORT, 'row locked'); END`
	if _, err := s.db.Exec(stmt); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}

func TestPurgeCartsCountsPartialProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		cart, err := s.CreateCart(ctx, "sess", domain.CartSale, "")
		if err != nil {
			t.Fatalf("create cart: %v", err)
		}
		ids = append(ids, cart.ID)
	}
	sort.Strings(ids)
	blockDelete(t, s, "carts", ids[2])

	n, err := s.PurgeCartsBefore(ctx, time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("expected the blocked delete to fail")
	}
	if n != 2 {
		t.Errorf("expected 2 carts reported as purged, got %d", n)
	}
}

func TestPurgeSessionsCountsPartialProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		sess, err := s.CreateSession(ctx, "bob", domain.RoleUser, "tok", -time.Minute)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		ids = append(ids, sess.ID)
	}
	sort.Strings(ids)
	blockDelete(t, s, "sessions", ids[1])

	n, err := s.PurgeExpiredSessions(ctx, time.Now())
	if err == nil {
		t.Fatal("expected the blocked delete to fail")
	}
	if n != 1 {
		t.Errorf("expected 1 session reported as purged, got %d", n)
	}
}
