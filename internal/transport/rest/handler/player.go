package handler

import (
	"net/http"

	"crewhunt/internal/model"
	"crewhunt/internal/service"
	"crewhunt/internal/transport/rest/middleware"
)

// PlayerHandler handles the caller's own state, locations and rankings
type PlayerHandler struct {
	playerSvc *service.PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerSvc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerSvc: playerSvc}
}

// ReportLocation handles POST /v1/location
//
// @Summary  Report the caller's coordinates
// @Tags     players
// @Security BearerAuth
// @Param    body body model.LocationRequest true "Coordinates"
// @Router   /location [post]
func (h *PlayerHandler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	var req model.LocationRequest
	if err := decodeBody(r, &req); err != nil || req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	loc, err := h.playerSvc.ReportLocation(r.Context(), middleware.GetUsername(r.Context()), *req.Latitude, *req.Longitude)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"location": loc})
}

// GetLocation handles GET /v1/location
func (h *PlayerHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.playerSvc.GetLocation(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"location": loc})
}

// Nearby handles GET /v1/players/nearby
func (h *PlayerHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	nearby, err := h.playerSvc.Nearby(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"players": nearby})
}

// AlivePlayers handles GET /v1/players
func (h *PlayerHandler) AlivePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerSvc.AlivePlayers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"players": players})
}

// Imposters handles GET /v1/imposters
func (h *PlayerHandler) Imposters(w http.ResponseWriter, r *http.Request) {
	imposters, err := h.playerSvc.Imposters(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"imposters": imposters})
}

// Role handles GET /v1/me/role
func (h *PlayerHandler) Role(w http.ResponseWriter, r *http.Request) {
	role, err := h.playerSvc.GetRole(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"role": role})
}

// Dead handles GET /v1/me/dead
func (h *PlayerHandler) Dead(w http.ResponseWriter, r *http.Request) {
	dead, err := h.playerSvc.IsDead(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"dead": dead})
}

// Score handles GET /v1/me/score
func (h *PlayerHandler) Score(w http.ResponseWriter, r *http.Request) {
	score, err := h.playerSvc.GetScore(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"score": score})
}

// Admin handles GET /v1/me/admin
func (h *PlayerHandler) Admin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, payload{"admin": middleware.IsAdmin(r.Context())})
}

// Leaderboard handles GET /v1/leaderboard
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.playerSvc.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"leaderboard": rankings})
}
