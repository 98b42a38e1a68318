package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/repository"
)

type DocumentHandler struct {
	service *repository.Service
}

func NewDocumentHandler(service *repository.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type uploadRequest struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	SizeLabel string `json:"size_label"`
}

// Upload handles POST /api/v1/documents
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"title": "A title is required"},
		})
		return
	}

	doc, err := h.service.Upload(r.Context(), middleware.GetUser(r.Context()), repository.UploadInput{
		Title:     req.Title,
		Type:      models.DocumentType(req.Type),
		SizeLabel: req.SizeLabel,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// RequestDeletion handles POST /api/v1/documents/{id}/delete
func (h *DocumentHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	del, err := h.service.RequestDeletion(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, del)
}

// ApproveDeletion handles POST /api/v1/documents/{id}/delete/approve
func (h *DocumentHandler) ApproveDeletion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	finalized, err := h.service.ApproveDeletion(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msg := "Vote recorded"
	if finalized {
		msg = "Document removed from the register"
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: msg})
}
