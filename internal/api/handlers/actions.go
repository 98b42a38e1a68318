package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/database/models"
)

type ActionHandler struct {
	service *actions.Service
}

func NewActionHandler(service *actions.Service) *ActionHandler {
	return &ActionHandler{service: service}
}

// List handles GET /api/v1/actions
func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/v1/actions/{id}
func (h *ActionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type createActionRequest struct {
	Task     string    `json:"task"`
	Owner    string    `json:"owner"`
	Deadline time.Time `json:"deadline"`
	Source   string    `json:"source"`
}

func (r createActionRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Task == "" {
		errors["task"] = "Task description is required"
	}
	if r.Owner == "" {
		errors["owner"] = "An owner is required"
	}
	if r.Deadline.IsZero() {
		errors["deadline"] = "A deadline is required"
	}
	return errors
}

// Create handles POST /api/v1/actions
func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	item, err := h.service.Create(r.Context(), middleware.GetUser(r.Context()), actions.CreateInput{
		Task:     req.Task,
		Owner:    req.Owner,
		Deadline: req.Deadline,
		Source:   req.Source,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type editActionRequest struct {
	NewStatus   *string    `json:"new_status,omitempty"`
	NewTask     *string    `json:"new_task,omitempty"`
	NewDeadline *time.Time `json:"new_deadline,omitempty"`
	NewOwner    *string    `json:"new_owner,omitempty"`
}

// RequestEdit handles POST /api/v1/actions/{id}/edit
func (h *ActionHandler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req editActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	input := actions.EditInput{
		NewTask:     req.NewTask,
		NewDeadline: req.NewDeadline,
		NewOwner:    req.NewOwner,
	}
	if req.NewStatus != nil {
		status := models.ActionStatus(*req.NewStatus)
		switch status {
		case models.ActionStatusPending, models.ActionStatusInProgress,
			models.ActionStatusCompleted, models.ActionStatusOverdue:
			input.NewStatus = &status
		default:
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"new_status": "Invalid action status"},
			})
			return
		}
	}

	edit, err := h.service.RequestEdit(r.Context(), middleware.GetUser(r.Context()), id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, edit)
}

// ApproveEdit handles POST /api/v1/actions/{id}/edit/approve
func (h *ActionHandler) ApproveEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.ApproveEdit(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type inboundUpdateRequest struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// InboundUpdate handles POST /webhooks/actions/{id}. Simulates the WhatsApp
// and email channels; the owner's message applies without a motion.
func (h *ActionHandler) InboundUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req inboundUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Channel == "" {
		req.Channel = "WhatsApp"
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"message": "A message is required"},
		})
		return
	}

	item, err := h.service.RecordInboundUpdate(r.Context(), id, req.Channel, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
