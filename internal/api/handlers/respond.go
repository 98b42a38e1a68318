package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/directors"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/meetings"
	"github.com/thabo/boardwise/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors onto HTTP statuses. A duplicate vote is
// not surfaced as an error at all: the caller's intent already holds, so the
// response is a 200 no-op.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governance.ErrDuplicateVote):
		writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Vote already recorded"})

	case errors.Is(err, governance.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})

	case errors.Is(err, governance.ErrPermissionDenied),
		errors.Is(err, governance.ErrInsufficientAuthority):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Permission denied"})

	case errors.Is(err, governance.ErrSelfAction):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Action cannot target your own account"})

	case errors.Is(err, governance.ErrConflictOfInterest):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Requester cannot approve their own motion"})

	case errors.Is(err, governance.ErrProtocolViolation):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Secretary signs off only after two director votes"})

	case errors.Is(err, governance.ErrDocumentsMissing):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Mandatory compliance documents are missing"})

	case errors.Is(err, directors.ErrEmailTaken),
		errors.Is(err, directors.ErrNotPending),
		errors.Is(err, directors.ErrNotTerminating),
		errors.Is(err, directors.ErrResetOpen),
		errors.Is(err, directors.ErrBadTransition),
		errors.Is(err, actions.ErrEditOpen),
		errors.Is(err, actions.ErrNoEditOpen),
		errors.Is(err, repository.ErrDeletionOpen),
		errors.Is(err, repository.ErrNoDeletionOpen),
		errors.Is(err, meetings.ErrNotLive),
		errors.Is(err, meetings.ErrAlreadyOver),
		errors.Is(err, meetings.ErrBadTransition):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, repository.ErrBadType):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})

	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
