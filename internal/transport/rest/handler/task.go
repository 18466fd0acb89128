package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"crewhunt/internal/model"
	"crewhunt/internal/service"
	"crewhunt/internal/transport/rest/middleware"
)

// TaskHandler handles task endpoints for players and the admin
type TaskHandler struct {
	taskSvc *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskSvc *service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// MyTasks handles GET /v1/me/tasks
func (h *TaskHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskSvc.MyTasks(r.Context(), middleware.GetUsername(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"tasks": tasks})
}

// SubmitAnswer handles POST /v1/tasks/{taskId}/answer
//
// @Summary  Answer an assigned task
// @Tags     tasks
// @Security BearerAuth
// @Param    taskId path string true "Task ID"
// @Param    body body model.SubmitAnswerRequest true "Answer"
// @Success  200 {object} model.SubmitAnswerResponse
// @Router   /tasks/{taskId}/answer [post]
func (h *TaskHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	taskID := mux.Vars(r)["taskId"]
	resp, err := h.taskSvc.SubmitAnswer(r.Context(), middleware.GetUsername(r.Context()), taskID, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !resp.Correct {
		writeError(w, http.StatusOK, resp.Message)
		return
	}
	writeJSON(w, http.StatusOK, payload{
		"message":      resp.Message,
		"alreadyDone":  resp.AlreadyDone,
		"scoreAwarded": resp.ScoreAwarded,
	})
}

// Hint handles GET /v1/tasks/{taskId}/hint
func (h *TaskHandler) Hint(w http.ResponseWriter, r *http.Request) {
	hint, err := h.taskSvc.RequestHint(r.Context(), mux.Vars(r)["taskId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"hint": hint})
}

// Progress handles GET /v1/game/progress
func (h *TaskHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.taskSvc.Progress(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"progress": progress})
}

// AddTask handles POST /v1/admin/tasks
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req model.AddTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskSvc.AddTask(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload{"task": task})
}

// ListTasks handles GET /v1/admin/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskSvc.ListTasks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload{"tasks": tasks})
}
