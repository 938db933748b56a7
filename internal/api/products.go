package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"stockdesk/m/domain"
	"stockdesk/m/internal/barcode"
	"stockdesk/m/internal/export"
	"stockdesk/m/internal/inventory"
	"stockdesk/m/internal/remote"
	"stockdesk/m/internal/reports"
	"stockdesk/m/internal/seed"
	"stockdesk/m/internal/validate"
)

const maxImportSize = 5 << 20

// fetchProducts loads the catalog under the list timeout, sorted by code.
func (h *Handler) fetchProducts(r *http.Request) ([]domain.Product, error) {
	ctx, cancel := h.listContext(r)
	defer cancel()
	products, err := h.remoteFor(r).ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	return products, nil
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.fetchProducts(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	lowStock := r.URL.Query().Get("low_stock") == "true"

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if lowStock && p.Stock > reports.LowStockThreshold {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Code), query) &&
			!strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	respondJSON(w, http.StatusOK, filtered)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.remoteFor(r).GetProduct(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.History = nil
	created, err := h.catalogFor(r).Create(r.Context(), p, sessionFrom(r).Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch inventory.Patch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.catalogFor(r).Edit(r.Context(), chi.URLParam(r, "code"), patch, sessionFrom(r).Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.remoteFor(r).DeleteProduct(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stockRequest struct {
	Delta int64 `json:"delta"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "delta must not be 0")
		return
	}
	p, err := h.catalogFor(r).AdjustStock(r.Context(), chi.URLParam(r, "code"), req.Delta, sessionFrom(r).Username, domain.ChangeStock)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type returnRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
	PIN      string `json:"pin"`
}

func (h *Handler) returnProduct(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ok, err := h.store.CheckReturnPIN(r.Context(), req.PIN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		respondError(w, http.StatusForbidden, "incorrect return PIN")
		return
	}
	ret, err := h.catalogFor(r).Return(r.Context(), chi.URLParam(r, "code"), req.Quantity, req.Reason, sessionFrom(r).Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

func (h *Handler) barcode(w http.ResponseWriter, r *http.Request) {
	quantity, err := intParam(r, "quantity", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	columns, err := intParam(r, "columns", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Var("quantity", quantity, "gte=1,lte=100"); err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.remoteFor(r).GetProduct(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	img, err := barcode.Sheet(p.Code, quantity, columns)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := barcode.WritePNG(&buf, img); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+p.Code+`.png"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) exportProductsXLSX(w http.ResponseWriter, r *http.Request) {
	products, err := h.fetchProducts(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.ProductsXLSX(&buf, products); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "products.xlsx", buf.Bytes())
}

func (h *Handler) exportProductsCSV(w http.ResponseWriter, r *http.Request) {
	products, err := h.fetchProducts(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.ProductsCSV(&buf, products); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "text/csv", "products.csv", buf.Bytes())
}

// importProducts accepts the CSV either as a multipart "file" field or as
// the raw request body.
func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var src io.Reader = http.MaxBytesReader(w, r.Body, maxImportSize)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			respondError(w, http.StatusBadRequest, "invalid upload")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		src = file
	}

	session := h.remoteFor(r)
	res, err := seed.ImportProducts(r.Context(), src, session, inventory.New(session), sessionFrom(r).Username)
	if err != nil {
		var apiErr *remote.Error
		if errors.As(err, &apiErr) || errors.Is(err, context.DeadlineExceeded) {
			h.fail(w, r, err)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("%s must be a number", name)
	}
	return n, nil
}

func attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
