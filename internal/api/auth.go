package api

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"stockdesk/m/domain"
	"stockdesk/m/internal/remote"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string              `json:"token"`
	User     domain.User         `json:"user"`
	Settings domain.ShopSettings `json:"settings"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	res, err := h.backend.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, remote.ErrUnauthorized) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.User.Username == "" {
		res.User.Username = req.Username
	}
	if res.User.Role != domain.RoleAdmin {
		res.User.Role = domain.RoleUser
	}

	sess, err := h.store.CreateSession(r.Context(), res.User.Username, res.User.Role, res.Token, h.sessionTTL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.generateToken(sess)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	settings, err := h.store.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: res.User, Settings: settings})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSession(r.Context(), sessionFrom(r).ID); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
