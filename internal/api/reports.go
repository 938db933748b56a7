package api

import (
	"net/http"
	"sort"
	"strconv"

	"stockdesk/m/internal/reports"
)

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.remoteFor(r).ListPayments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].CreatedAt > payments[j].CreatedAt })
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.remoteFor(r).ListReturns(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sort.SliceStable(returns, func(i, j int) bool { return returns[i].CreatedAt > returns[j].CreatedAt })
	respondJSON(w, http.StatusOK, returns)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.listContext(r)
	defer cancel()
	d, err := reports.BuildDashboard(ctx, h.remoteFor(r), h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// monthly answers the twelve month totals for ?year= (default: this year)
// from ?source=sales (default) or ?source=maintenance.
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year := now.Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respondError(w, http.StatusBadRequest, "year must be a number")
			return
		}
		year = y
	}

	var points []reports.Point
	switch source := r.URL.Query().Get("source"); source {
	case "", "sales":
		payments, err := h.remoteFor(r).ListPayments(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		points = reports.PaymentPoints(payments)
	case "maintenance":
		records, err := h.remoteFor(r).ListMaintenance(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		points = reports.MaintenancePoints(records)
	default:
		respondError(w, http.StatusBadRequest, "source must be one of: sales maintenance")
		return
	}
	respondJSON(w, http.StatusOK, reports.Monthly(points, year, now.Location()))
}
