package handler

import (
	"net/http"
	"strings"

	"crewhunt/internal/config"
	"crewhunt/internal/model"
	"crewhunt/internal/service"
	"crewhunt/internal/transport/rest/middleware"
)

// GameHandler handles kills, meetings, the win check and admin round control
type GameHandler struct {
	gameSvc *service.GameService
	cfg     *config.GameConfig
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameSvc *service.GameService, cfg *config.GameConfig) *GameHandler {
	return &GameHandler{gameSvc: gameSvc, cfg: cfg}
}

// Kill handles POST /v1/kill
//
// @Summary  Eliminate the nearest crewmate in range
// @Tags     game
// @Security BearerAuth
// @Success  200 {object} model.KillResult
// @Failure  403,409 {object} map[string]interface{}
// @Router   /kill [post]
func (h *GameHandler) Kill(w http.ResponseWriter, r *http.Request) {
	result, err := h.gameSvc.Kill(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": result.Message, "kill": result})
}

// KillRemote handles POST /v1/kill/remote
//
// @Summary  Eliminate a named crewmate at any distance
// @Tags     game
// @Security BearerAuth
// @Param    body body model.KillRemoteRequest true "Target"
// @Success  200 {object} model.KillResult
// @Router   /kill/remote [post]
func (h *GameHandler) KillRemote(w http.ResponseWriter, r *http.Request) {
	var req model.KillRemoteRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	result, err := h.gameSvc.KillRemote(r.Context(), middleware.GetUsername(r.Context()), strings.TrimSpace(req.Target))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": result.Message, "kill": result})
}

// Vote handles POST /v1/meeting/vote. A null or missing targetId is a skip.
func (h *GameHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req model.VoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target := ""
	if req.TargetID != nil {
		target = strings.TrimSpace(*req.TargetID)
	}

	if err := h.gameSvc.CastVote(r.Context(), middleware.GetUsername(r.Context()), target); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": "Vote recorded"})
}

// MeetingStatus handles GET /v1/meeting
func (h *GameHandler) MeetingStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.gameSvc.MeetingStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"meeting": status})
}

// CheckWin handles GET /v1/game/win
//
// @Summary  Evaluate the win condition
// @Tags     game
// @Success  200 {object} model.WinStatus
// @Router   /game/win [get]
func (h *GameHandler) CheckWin(w http.ResponseWriter, r *http.Request) {
	status, err := h.gameSvc.CheckWin(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"winner": status.Winner, "status": status})
}

// Status handles GET /v1/game/status
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.gameSvc.GameStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"status": status})
}

// StartGame handles POST /v1/admin/game/start
//
// @Summary  Start a new round
// @Tags     admin
// @Security BearerAuth
// @Param    body body model.StartGameRequest false "Tasks per player"
// @Success  200 {object} model.RoundStarted
// @Router   /admin/game/start [post]
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req model.StartGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TasksPerPlayer == 0 {
		req.TasksPerPlayer = h.cfg.DefaultTasksPerPlayer
	}

	round, err := h.gameSvc.StartGame(r.Context(), req.TasksPerPlayer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": round.Message, "round": round})
}

// StartMeeting handles POST /v1/admin/meeting/start
func (h *GameHandler) StartMeeting(w http.ResponseWriter, r *http.Request) {
	if err := h.gameSvc.StartMeeting(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": "Emergency meeting started"})
}

// EndMeeting handles POST /v1/admin/meeting/end
//
// @Summary  Resolve the emergency meeting
// @Tags     admin
// @Security BearerAuth
// @Success  200 {object} model.MeetingResult
// @Router   /admin/meeting/end [post]
func (h *GameHandler) EndMeeting(w http.ResponseWriter, r *http.Request) {
	result, err := h.gameSvc.EndMeeting(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": result.Message, "result": result})
}

// ConvertCrewmates handles POST /v1/admin/crewmates/convert
func (h *GameHandler) ConvertCrewmates(w http.ResponseWriter, r *http.Request) {
	var req model.ConvertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	converted, err := h.gameSvc.ConvertCrewmates(r.Context(), req.Count)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"converted": converted})
}

// ClearScores handles POST /v1/admin/scores/clear
func (h *GameHandler) ClearScores(w http.ResponseWriter, r *http.Request) {
	if err := h.gameSvc.ClearScores(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": "Scores cleared"})
}

// ClearUsers handles POST /v1/admin/users/clear
func (h *GameHandler) ClearUsers(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.gameSvc.ClearUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"message": "Users cleared", "deleted": deleted})
}
