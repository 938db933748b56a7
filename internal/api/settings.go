package api

import (
	"net/http"
	"strings"

	"stockdesk/m/domain"
	"stockdesk/m/internal/validate"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var settings domain.ShopSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	settings.Name = strings.TrimSpace(settings.Name)
	settings.Address = strings.TrimSpace(settings.Address)
	settings.Phone = strings.TrimSpace(settings.Phone)
	settings.Currency = strings.TrimSpace(settings.Currency)
	if err := validate.Struct(settings); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.PutSettings(r.Context(), settings); err != nil {
		h.fail(w, r, err)
		return
	}
	h.getSettings(w, r)
}

type pinRequest struct {
	PIN string `json:"pin"`
}

func (h *Handler) setReturnPIN(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PIN != "" {
		if err := validate.Var("pin", req.PIN, "numeric,min=4,max=8"); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if err := h.store.SetReturnPIN(r.Context(), req.PIN); err != nil {
		h.fail(w, r, err)
		return
	}
	h.getSettings(w, r)
}
