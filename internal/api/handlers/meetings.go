package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/drafting"
	"github.com/thabo/boardwise/internal/meetings"
)

type MeetingHandler struct {
	service  *meetings.Service
	drafting *drafting.Client
}

func NewMeetingHandler(service *meetings.Service, draftingClient *drafting.Client) *MeetingHandler {
	return &MeetingHandler{service: service, drafting: draftingClient}
}

// List handles GET /api/v1/meetings
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/v1/meetings/{id}
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	meeting, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

type agendaItemRequest struct {
	Title             string `json:"title"`
	Presenter         string `json:"presenter"`
	DurationMinutes   int    `json:"duration_minutes"`
	IsComplianceCheck bool   `json:"is_compliance_check"`
	Documents         string `json:"documents"`
}

type scheduleRequest struct {
	Title    string              `json:"title"`
	Date     time.Time           `json:"date"`
	Location string              `json:"location"`
	Agenda   []agendaItemRequest `json:"agenda"`
}

func (r scheduleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title == "" {
		errors["title"] = "A title is required"
	}
	if r.Date.IsZero() {
		errors["date"] = "A date is required"
	}
	return errors
}

func toAgendaInput(items []agendaItemRequest) []meetings.AgendaItemInput {
	if items == nil {
		return nil
	}
	out := make([]meetings.AgendaItemInput, len(items))
	for i, item := range items {
		out[i] = meetings.AgendaItemInput{
			Title:             item.Title,
			Presenter:         item.Presenter,
			DurationMinutes:   item.DurationMinutes,
			IsComplianceCheck: item.IsComplianceCheck,
			Documents:         item.Documents,
		}
	}
	return out
}

// Schedule handles POST /api/v1/meetings
func (h *MeetingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	meeting, err := h.service.Schedule(r.Context(), middleware.GetUser(r.Context()), meetings.ScheduleInput{
		Title:    req.Title,
		Date:     req.Date,
		Location: req.Location,
		Agenda:   toAgendaInput(req.Agenda),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meeting)
}

type updateMeetingRequest struct {
	Title    *string             `json:"title,omitempty"`
	Date     *time.Time          `json:"date,omitempty"`
	Location *string             `json:"location,omitempty"`
	Agenda   []agendaItemRequest `json:"agenda,omitempty"`
}

// Update handles PUT /api/v1/meetings/{id}
func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	meeting, err := h.service.Update(r.Context(), middleware.GetUser(r.Context()), id, meetings.UpdateInput{
		Title:    req.Title,
		Date:     req.Date,
		Location: req.Location,
		Agenda:   toAgendaInput(req.Agenda),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

// Start handles POST /api/v1/meetings/{id}/start
func (h *MeetingHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	meeting, err := h.service.Start(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

// Close handles POST /api/v1/meetings/{id}/close
func (h *MeetingHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	meeting, err := h.service.Close(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

// Join handles POST /api/v1/meetings/{id}/join
func (h *MeetingHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Join(r.Context(), middleware.GetUser(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Attendance recorded"})
}

// Leave handles POST /api/v1/meetings/{id}/leave
func (h *MeetingHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Leave(r.Context(), middleware.GetUser(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Departure recorded"})
}

type declarationRequest struct {
	Declaration string `json:"declaration"`
}

// DeclareInterests handles POST /api/v1/meetings/{id}/declare
func (h *MeetingHandler) DeclareInterests(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req declarationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.DeclareInterests(r.Context(), middleware.GetUser(r.Context()), id, req.Declaration); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Declaration recorded"})
}

// ReviewCompliance handles POST /api/v1/meetings/{id}/compliance. The review
// runs synchronously against the drafting collaborator (or its fallback) and
// the advisory score is stored on the meeting.
func (h *MeetingHandler) ReviewCompliance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	meeting, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	agenda := make([]string, len(meeting.Agenda))
	for i, item := range meeting.Agenda {
		agenda[i] = item.Title
	}

	review := h.drafting.CheckCompliance(r.Context(), agenda)
	if err := h.service.SetComplianceScore(r.Context(), id, review.Score); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
