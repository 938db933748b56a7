package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"stockdesk/m/domain"
	"stockdesk/m/internal/config"
	"stockdesk/m/internal/inventory"
	"stockdesk/m/internal/logging"
	"stockdesk/m/internal/remote"
	"stockdesk/m/internal/store"
	"stockdesk/m/internal/validate"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store          *store.Store
	backend        *remote.Client
	logger         *zap.Logger
	secret         string
	sessionTTL     time.Duration
	listTimeout    time.Duration
	allowedOrigins []string
	now            func() time.Time
}

// New constructs a Handler.
func New(st *store.Store, backend *remote.Client, cfg config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		store:          st,
		backend:        backend,
		logger:         logger,
		secret:         cfg.Secret,
		sessionTTL:     cfg.SessionTTL,
		listTimeout:    cfg.ListTimeout,
		allowedOrigins: cfg.AllowedOrigins,
		now:            time.Now,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Requests(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.With(h.authMiddleware).Post("/logout", h.logout)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/settings", func(r chi.Router) {
			r.Get("/", h.getSettings)
			r.Put("/", h.putSettings)
			r.Put("/return-pin", h.setReturnPIN)
		})

		pr.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/export.xlsx", h.exportProductsXLSX)
			r.Get("/export.csv", h.exportProductsCSV)
			r.Post("/import", h.importProducts)
			r.Get("/{code}", h.getProduct)
			r.Put("/{code}", h.updateProduct)
			r.Delete("/{code}", h.deleteProduct)
			r.Post("/{code}/stock", h.adjustStock)
			r.Post("/{code}/returns", h.returnProduct)
			r.Get("/{code}/barcode", h.barcode)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
			r.Get("/export.csv", h.exportSuppliersCSV)
			r.Get("/{id}", h.getSupplier)
			r.Put("/{id}", h.updateSupplier)
		})

		pr.Route("/maintenance", func(r chi.Router) {
			r.Get("/", h.listMaintenance)
			r.Post("/", h.createMaintenance)
			r.Get("/export.csv", h.exportMaintenanceCSV)
			r.Put("/{id}", h.updateMaintenance)
			r.Delete("/{id}", h.deleteMaintenance)
		})

		pr.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})

		pr.Route("/carts", func(r chi.Router) {
			r.Post("/", h.createCart)
			r.Get("/{id}", h.getCart)
			r.Delete("/{id}", h.cancelCart)
			r.Put("/{id}/lines/{code}", h.putCartLine)
			r.Delete("/{id}/lines/{code}", h.removeCartLine)
			r.Post("/{id}/checkout", h.checkout)
			r.Post("/{id}/receive", h.receive)
		})

		pr.Get("/payments", h.listPayments)
		pr.Get("/returns", h.listReturns)

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.dashboard)
			r.Get("/monthly", h.monthly)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(sess domain.Session) (string, error) {
	claims := authClaims{
		SessionID: sess.ID,
		Username:  sess.Username,
		Role:      sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(sess.ExpiresAt, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Unix(sess.CreatedAt, 0)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondLogin(w, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondLogin(w, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondLogin(w, "invalid token claims")
			return
		}
		sess, err := h.store.Session(r.Context(), claims.SessionID)
		if errors.Is(err, store.ErrNotFound) {
			respondLogin(w, "session expired")
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) domain.Session {
	sess, _ := r.Context().Value(ctxSession).(domain.Session)
	return sess
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	current := sessionFrom(r).Role
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

// remoteFor returns the backend client authenticated as the caller.
func (h *Handler) remoteFor(r *http.Request) *remote.Session {
	return h.backend.As(sessionFrom(r).RemoteToken)
}

func (h *Handler) catalogFor(r *http.Request) *inventory.Catalog {
	return inventory.New(h.remoteFor(r))
}

// listContext bounds the product and supplier list fetches.
func (h *Handler) listContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.listTimeout)
}

// fail maps an error to a response. A backend 401 ends the local session
// so the console sends the user back to the login screen.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErr *validate.FieldError
		apiErr   *remote.Error
	)
	switch {
	case errors.As(err, &fieldErr):
		respondError(w, http.StatusBadRequest, fieldErr.Message)
	case errors.Is(err, remote.ErrUnauthorized):
		if sess := sessionFrom(r); sess.ID != "" {
			if derr := h.store.DeleteSession(r.Context(), sess.ID); derr != nil {
				h.logger.Error("unable to clear session", zap.String("session", sess.ID), zap.Error(derr))
			}
		}
		respondLogin(w, "session expired, please log in again")
	case errors.Is(err, remote.ErrNotFound), errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, inventory.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		respondError(w, apiErr.Status, apiErr.Message)
	case errors.As(err, &apiErr):
		h.logger.Warn("backend error", zap.String("path", r.URL.Path), zap.Error(err))
		respondError(w, http.StatusBadGateway, "backend unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "backend did not answer in time")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondLogin(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnauthorized, map[string]string{"error": message, "redirect": "/login"})
}
