package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"stockdesk/m/domain"
)

// fakeBackend is an in-memory POS backend speaking the remote REST API.
type fakeBackend struct {
	mu          sync.Mutex
	tokens      map[string]bool
	accounts    map[string]domain.User
	products    map[string]domain.Product
	suppliers   map[string]domain.Supplier
	users       map[string]domain.User
	maintenance map[string]domain.MaintenanceRecord
	payments    []domain.Payment
	returns     []domain.Return
	nextID      int
	// failures holds "METHOD /path" keys that answer 500 once.
	failures map[string]int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{
		tokens: map[string]bool{},
		accounts: map[string]domain.User{
			"admin":   {ID: "u1", Username: "admin", Role: domain.RoleAdmin},
			"cashier": {ID: "u2", Username: "cashier", Role: domain.RoleUser},
		},
		products:    map[string]domain.Product{},
		suppliers:   map[string]domain.Supplier{},
		users:       map[string]domain.User{},
		maintenance: map[string]domain.MaintenanceRecord{},
		failures:    map[string]int{},
	}
	for _, u := range f.accounts {
		f.users[u.ID] = u
	}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBackend) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

func (f *fakeBackend) allow(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = true
}

// failNext makes the next request matching method and path fail with 500.
func (f *fakeBackend) failNext(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path]++
}

func (f *fakeBackend) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

func (f *fakeBackend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		fail := f.failures[key] > 0
		if fail {
			f.failures[key]--
		}
		f.mu.Unlock()
		if fail {
			reply(w, http.StatusInternalServerError, map[string]string{"error": "database is locked"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeBackend) product(code string) (domain.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[code]
	return p, ok
}

func (f *fakeBackend) putProduct(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.Code] = p
}

func (f *fakeBackend) supplier(id string) domain.Supplier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suppliers[id]
}

func (f *fakeBackend) putSupplier(s domain.Supplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers[s.ID] = s
}

func (f *fakeBackend) addPayment(p domain.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, p)
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%04d", prefix, f.nextID)
}

func (f *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.injectFailures)
	r.Post("/auth/login", f.login)
	r.Group(func(r chi.Router) {
		r.Use(f.auth)

		r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			out := []domain.Product{}
			for _, p := range f.products {
				out = append(out, p)
			}
			reply(w, http.StatusOK, out)
		})
		r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
			var p domain.Product
			json.NewDecoder(r.Body).Decode(&p)
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.products[p.Code]; ok {
				reply(w, http.StatusConflict, map[string]string{"error": "product already exists"})
				return
			}
			f.products[p.Code] = p
			reply(w, http.StatusCreated, p)
		})
		r.Get("/products/{code}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			p, ok := f.products[chi.URLParam(r, "code")]
			if !ok {
				reply(w, http.StatusNotFound, map[string]string{"error": "product not found"})
				return
			}
			reply(w, http.StatusOK, p)
		})
		r.Put("/products/{code}", func(w http.ResponseWriter, r *http.Request) {
			var p domain.Product
			json.NewDecoder(r.Body).Decode(&p)
			f.mu.Lock()
			defer f.mu.Unlock()
			f.products[chi.URLParam(r, "code")] = p
			reply(w, http.StatusOK, p)
		})
		r.Delete("/products/{code}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.products, chi.URLParam(r, "code"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/suppliers", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			out := []domain.Supplier{}
			for _, s := range f.suppliers {
				out = append(out, s)
			}
			reply(w, http.StatusOK, out)
		})
		r.Post("/suppliers", func(w http.ResponseWriter, r *http.Request) {
			var s domain.Supplier
			json.NewDecoder(r.Body).Decode(&s)
			f.mu.Lock()
			defer f.mu.Unlock()
			s.ID = f.id("SUP")
			f.suppliers[s.ID] = s
			reply(w, http.StatusCreated, s)
		})
		r.Get("/suppliers/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			s, ok := f.suppliers[chi.URLParam(r, "id")]
			if !ok {
				reply(w, http.StatusNotFound, map[string]string{"error": "supplier not found"})
				return
			}
			reply(w, http.StatusOK, s)
		})
		r.Put("/suppliers/{id}", func(w http.ResponseWriter, r *http.Request) {
			var s domain.Supplier
			json.NewDecoder(r.Body).Decode(&s)
			f.mu.Lock()
			defer f.mu.Unlock()
			f.suppliers[chi.URLParam(r, "id")] = s
			reply(w, http.StatusOK, s)
		})

		r.Get("/payments", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			reply(w, http.StatusOK, append([]domain.Payment{}, f.payments...))
		})
		r.Post("/payments", func(w http.ResponseWriter, r *http.Request) {
			var p domain.Payment
			json.NewDecoder(r.Body).Decode(&p)
			f.mu.Lock()
			defer f.mu.Unlock()
			p.InvoiceNo = fmt.Sprintf("INV-%04d", len(f.payments)+1)
			f.payments = append(f.payments, p)
			reply(w, http.StatusCreated, p)
		})

		r.Get("/returns", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			reply(w, http.StatusOK, append([]domain.Return{}, f.returns...))
		})
		r.Post("/returns", func(w http.ResponseWriter, r *http.Request) {
			var ret domain.Return
			json.NewDecoder(r.Body).Decode(&ret)
			f.mu.Lock()
			defer f.mu.Unlock()
			ret.ID = f.id("RET")
			f.returns = append(f.returns, ret)
			reply(w, http.StatusCreated, ret)
		})

		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			out := []domain.User{}
			for _, u := range f.users {
				out = append(out, u)
			}
			reply(w, http.StatusOK, out)
		})
		r.Put("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			var u domain.User
			json.NewDecoder(r.Body).Decode(&u)
			f.mu.Lock()
			defer f.mu.Unlock()
			f.users[chi.URLParam(r, "id")] = u
			reply(w, http.StatusOK, u)
		})
		r.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.users, chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/maintenance", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			out := []domain.MaintenanceRecord{}
			for _, m := range f.maintenance {
				out = append(out, m)
			}
			reply(w, http.StatusOK, out)
		})
		r.Post("/maintenance", func(w http.ResponseWriter, r *http.Request) {
			var m domain.MaintenanceRecord
			json.NewDecoder(r.Body).Decode(&m)
			f.mu.Lock()
			defer f.mu.Unlock()
			m.ID = f.id("MNT")
			f.maintenance[m.ID] = m
			reply(w, http.StatusCreated, m)
		})
		r.Put("/maintenance/{id}", func(w http.ResponseWriter, r *http.Request) {
			var m domain.MaintenanceRecord
			json.NewDecoder(r.Body).Decode(&m)
			f.mu.Lock()
			defer f.mu.Unlock()
			f.maintenance[chi.URLParam(r, "id")] = m
			reply(w, http.StatusOK, m)
		})
		r.Delete("/maintenance/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.maintenance, chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.accounts[req.Username]
	if !ok || req.Password != "secret" {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	token := "tok-" + u.Username
	f.tokens[token] = true
	reply(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (f *fakeBackend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
