package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/voting"
)

type VoteHandler struct {
	sessions *voting.Sessions
}

func NewVoteHandler(sessions *voting.Sessions) *VoteHandler {
	return &VoteHandler{sessions: sessions}
}

type tableResolutionRequest struct {
	Text string `json:"text"`
}

// TableResolution handles POST /api/v1/meetings/{id}/resolution
func (h *VoteHandler) TableResolution(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req tableResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"text": "Resolution text is required"},
		})
		return
	}

	res, err := h.sessions.TableResolution(r.Context(), middleware.GetUser(r.Context()), id, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type castVoteRequest struct {
	Choice string `json:"choice"`
}

// CastVote handles POST /api/v1/meetings/{id}/resolution/vote
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	choice := governance.VoteChoice(req.Choice)
	if !choice.Valid() {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"choice": "Choice must be FOR, AGAINST or ABSTAIN"},
		})
		return
	}

	tally, err := h.sessions.CastVote(r.Context(), middleware.GetUser(r.Context()), id, choice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}

type resolutionState struct {
	Resolution *voting.Resolution       `json:"resolution"`
	Tally      governance.WeightedTally `json:"tally"`
}

// CurrentResolution handles GET /api/v1/meetings/{id}/resolution
func (h *VoteHandler) CurrentResolution(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, tally, err := h.sessions.Current(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolutionState{Resolution: res, Tally: tally})
}
