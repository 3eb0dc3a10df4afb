package handler

import (
	"net/http"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/service"
)

type SessionHandler struct {
	service *service.AuthService
}

func NewSessionHandler(service *service.AuthService) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	info, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, info, nil)
}

func (h *SessionHandler) Current(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Current(), nil)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	if err := h.service.Logout(); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "logged out"}, nil)
}
