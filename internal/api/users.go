package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"stockdesk/m/domain"
	"stockdesk/m/internal/validate"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	users, err := h.remoteFor(r).ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var u domain.User
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u.ID = chi.URLParam(r, "id")
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
	if err := validate.Struct(u); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.remoteFor(r).UpdateUser(r.Context(), u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	session := h.remoteFor(r)
	id := chi.URLParam(r, "id")
	users, err := session.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, u := range users {
		if u.ID == id && u.Username == sessionFrom(r).Username {
			respondError(w, http.StatusBadRequest, "cannot delete your own account")
			return
		}
	}
	if err := session.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
