package api

import (
	"bytes"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stockdesk/m/domain"
	"stockdesk/m/internal/export"
	"stockdesk/m/internal/reports"
	"stockdesk/m/internal/validate"
)

func (h *Handler) fetchSuppliers(r *http.Request) ([]domain.Supplier, error) {
	ctx, cancel := h.listContext(r)
	defer cancel()
	suppliers, err := h.remoteFor(r).ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(suppliers, func(i, j int) bool {
		return strings.ToLower(suppliers[i].Name) < strings.ToLower(suppliers[j].Name)
	})
	return suppliers, nil
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.fetchSuppliers(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reports.Balances(suppliers))
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := h.remoteFor(r).GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reports.Balances([]domain.Supplier{s})[0])
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var s domain.Supplier
	if err := decodeJSON(r, &s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.ID = ""
	trimSupplier(&s)
	if s.Items == nil {
		s.Items = []domain.PurchasedItem{}
	}
	if err := validate.Struct(s); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.remoteFor(r).CreateSupplier(r.Context(), s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, reports.Balances([]domain.Supplier{created})[0])
}

// supplierPatch edits contact details; Payment adds to the payments
// received so far.
type supplierPatch struct {
	Name         *string  `json:"name"`
	BusinessName *string  `json:"business_name"`
	Phone        *string  `json:"phone"`
	Address      *string  `json:"address"`
	Payment      *float64 `json:"payment"`
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var patch supplierPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	session := h.remoteFor(r)
	s, err := session.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.BusinessName != nil {
		s.BusinessName = *patch.BusinessName
	}
	if patch.Phone != nil {
		s.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.Address = *patch.Address
	}
	if patch.Payment != nil {
		if err := validate.Var("payment", *patch.Payment, "gt=0"); err != nil {
			h.fail(w, r, err)
			return
		}
		s.TotalPayments = decimal.NewFromFloat(s.TotalPayments).
			Add(decimal.NewFromFloat(*patch.Payment)).
			Round(2).
			InexactFloat64()
	}
	trimSupplier(&s)
	if err := validate.Struct(s); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := session.UpdateSupplier(r.Context(), s)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reports.Balances([]domain.Supplier{updated})[0])
}

func (h *Handler) exportSuppliersCSV(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.fetchSuppliers(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.SuppliersCSV(&buf, suppliers); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "text/csv", "suppliers.csv", buf.Bytes())
}

func trimSupplier(s *domain.Supplier) {
	s.Name = strings.TrimSpace(s.Name)
	s.BusinessName = strings.TrimSpace(s.BusinessName)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	for i := range s.Items {
		s.Items[i].Name = strings.TrimSpace(s.Items[i].Name)
		s.Items[i].Category = strings.TrimSpace(s.Items[i].Category)
	}
}
