package handler

import (
	"net/http"

	"crewhunt/internal/model"
	"crewhunt/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /v1/auth/register
//
// @Summary  Register a player
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body model.RegisterRequest true "Credentials"
// @Success  201 {object} model.LoginResponse
// @Failure  400,409 {object} map[string]interface{}
// @Router   /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload{"message": "Registered", "auth": resp})
}

// Login handles POST /v1/auth/login
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body model.LoginRequest true "Credentials"
// @Success  200 {object} model.LoginResponse
// @Failure  401 {object} map[string]interface{}
// @Router   /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload{"auth": resp})
}
