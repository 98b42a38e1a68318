package handlers

import (
	"net/http"

	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/audit"
)

type AuditHandler struct {
	recorder *audit.Recorder
}

func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List handles GET /api/v1/audit. The recorder enforces the view filter: the
// secretary reads the full trail, everyone else their own entries.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.recorder.List(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
