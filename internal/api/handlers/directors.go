package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/directors"
)

type DirectorHandler struct {
	service *directors.Service
}

func NewDirectorHandler(service *directors.Service) *DirectorHandler {
	return &DirectorHandler{service: service}
}

// List handles GET /api/v1/directors
func (h *DirectorHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]dto.UserDTO, len(users))
	for i := range users {
		out[i] = dto.UserToDTO(&users[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/directors/{id}
func (h *DirectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}

// ApproveOnboarding handles POST /api/v1/directors/{id}/approve
func (h *DirectorHandler) ApproveOnboarding(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.ApproveOnboarding(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type terminationRequest struct {
	Reason string `json:"reason"`
}

// InitiateTermination handles POST /api/v1/directors/{id}/terminate
func (h *DirectorHandler) InitiateTermination(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req terminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"reason": "A termination reason is required"},
		})
		return
	}

	user, err := h.service.InitiateTermination(r.Context(), middleware.GetUser(r.Context()), id, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}

// VoteTermination handles POST /api/v1/directors/{id}/terminate/approve
func (h *DirectorHandler) VoteTermination(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.VoteTermination(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// ToggleFreeze handles POST /api/v1/directors/{id}/freeze
func (h *DirectorHandler) ToggleFreeze(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.service.ToggleFreeze(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}

type profileUpdateRequest struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Role             *string `json:"role,omitempty"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	CertifiedID      *bool   `json:"certified_id,omitempty"`
	ProofOfResidence *bool   `json:"proof_of_residence,omitempty"`
	CV               *bool   `json:"cv,omitempty"`
}

// UpdateProfile handles PUT /api/v1/directors/{id}
func (h *DirectorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	input := directors.ProfileUpdate{
		Name:             req.Name,
		Email:            req.Email,
		AvatarURL:        req.AvatarURL,
		CertifiedID:      req.CertifiedID,
		ProofOfResidence: req.ProofOfResidence,
		CV:               req.CV,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		if !role.Valid() {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"role": "Invalid board role"},
			})
			return
		}
		input.Role = &role
	}

	user, err := h.service.UpdateProfile(r.Context(), middleware.GetUser(r.Context()), id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}

type resetRequest struct {
	Reason string `json:"reason"`
}

// RequestPasswordReset handles POST /api/v1/directors/{id}/password-reset
func (h *DirectorHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), middleware.GetUser(r.Context()), id, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SuccessResponse{Message: "Password reset motion opened"})
}

// ApprovePasswordReset handles POST /api/v1/directors/{id}/password-reset/approve
func (h *DirectorHandler) ApprovePasswordReset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.ApprovePasswordReset(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}
