package api

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-chi/chi/v5"

	"stockdesk/m/domain"
	"stockdesk/m/internal/export"
	"stockdesk/m/internal/validate"
)

func (h *Handler) fetchMaintenance(r *http.Request) ([]domain.MaintenanceRecord, error) {
	records, err := h.remoteFor(r).ListMaintenance(r.Context())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].Time > records[j].Time
	})
	return records, nil
}

func (h *Handler) listMaintenance(w http.ResponseWriter, r *http.Request) {
	records, err := h.fetchMaintenance(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) createMaintenance(w http.ResponseWriter, r *http.Request) {
	var rec domain.MaintenanceRecord
	if err := decodeJSON(r, &rec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.ID = ""
	if err := normalizeMaintenance(&rec); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.remoteFor(r).CreateMaintenance(r.Context(), rec)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMaintenance(w http.ResponseWriter, r *http.Request) {
	var rec domain.MaintenanceRecord
	if err := decodeJSON(r, &rec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.ID = chi.URLParam(r, "id")
	if err := normalizeMaintenance(&rec); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.remoteFor(r).UpdateMaintenance(r.Context(), rec)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.remoteFor(r).DeleteMaintenance(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportMaintenanceCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.fetchMaintenance(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.MaintenanceCSV(&buf, records); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "text/csv", "maintenance.csv", buf.Bytes())
}

// normalizeMaintenance validates rec and rewrites its date as YYYY-MM-DD
// and its time as HH:MM.
func normalizeMaintenance(rec *domain.MaintenanceRecord) error {
	rec.Date = strings.TrimSpace(rec.Date)
	rec.Time = strings.TrimSpace(rec.Time)
	rec.ServiceType = strings.TrimSpace(rec.ServiceType)
	rec.Remarks = strings.TrimSpace(rec.Remarks)
	if err := validate.Struct(*rec); err != nil {
		return err
	}
	d, err := dateparse.ParseLocal(rec.Date)
	if err != nil {
		return &validate.FieldError{Field: "date", Message: "date is not a valid date"}
	}
	rec.Date = d.Format("2006-01-02")
	if rec.Time != "" {
		t, err := time.Parse("15:04", rec.Time)
		if err != nil {
			return &validate.FieldError{Field: "time", Message: "time must be HH:MM"}
		}
		rec.Time = t.Format("15:04")
	}
	return nil
}
