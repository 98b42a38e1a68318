package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/drafting"
	"github.com/thabo/boardwise/internal/repository"
)

// Handler processes background tasks on the worker.
type Handler struct {
	logger   *slog.Logger
	drafting *drafting.Client
	actions  *actions.Service
	repo     *repository.Service
	recorder *audit.Recorder
}

func NewHandler(logger *slog.Logger, draftingClient *drafting.Client, actionsSvc *actions.Service, repoSvc *repository.Service, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:   logger,
		drafting: draftingClient,
		actions:  actionsSvc,
		repo:     repoSvc,
		recorder: recorder,
	}
}

// Register wires all task types onto the worker mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeDraftStrategy, h.HandleDraftStrategy)
	mux.HandleFunc(TypeDraftMinutes, h.HandleDraftMinutes)
	mux.HandleFunc(TypeActionSweep, h.HandleActionSweep)
}

// HandleDraftStrategy produces a pre-meeting plan. The output is advisory:
// it is logged and recorded, never a gate on the meeting itself.
func (h *Handler) HandleDraftStrategy(ctx context.Context, t *asynq.Task) error {
	var p DraftStrategyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshaling strategy payload: %w", err)
	}

	open, err := h.actions.List(ctx)
	if err != nil {
		return err
	}
	var openTasks []string
	for _, a := range open {
		if a.Status != models.ActionStatusCompleted {
			openTasks = append(openTasks, a.Task)
		}
	}

	plan := h.drafting.PlanStrategy(ctx, p.MeetingTitle, openTasks)
	matters := h.drafting.AnalyzeMattersArising(ctx, openTasks)
	h.logger.Info("strategy plan drafted",
		"meeting_id", p.MeetingID,
		"agenda_items", len(plan.SuggestedAgenda),
		"matters_arising", matters,
	)

	h.recorder.Record(ctx, audit.Actor{Name: "System"}, audit.ActionDocsGenerated,
		fmt.Sprintf("Strategy plan drafted for meeting: %s", p.MeetingTitle))

	return nil
}

// HandleDraftMinutes drafts minutes for a closed meeting and files them in
// the document register.
func (h *Handler) HandleDraftMinutes(ctx context.Context, t *asynq.Task) error {
	var p DraftMinutesPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshaling minutes payload: %w", err)
	}

	draft := h.drafting.GenerateMinutes(ctx, p.MeetingTitle, p.ResolutionText, p.TallySummary)

	title := fmt.Sprintf("Minutes - %s (%s)", p.MeetingTitle, time.Now().Format("2 Jan 2006"))
	doc, err := h.repo.RecordGenerated(ctx, title, models.DocumentTypeMinutes, "System (drafted)")
	if err != nil {
		return fmt.Errorf("filing drafted minutes: %w", err)
	}

	h.logger.Info("minutes drafted and filed",
		"meeting_id", p.MeetingID,
		"document_id", doc.ID,
		"resolutions", len(draft.Resolutions),
	)

	h.recorder.Record(ctx, audit.Actor{Name: "System"}, audit.ActionDocsGenerated,
		fmt.Sprintf("Draft minutes filed for meeting: %s", p.MeetingTitle))

	return nil
}

// HandleActionSweep flags overdue action items and logs upcoming deadlines.
func (h *Handler) HandleActionSweep(ctx context.Context, t *asynq.Task) error {
	flagged, err := h.actions.MarkOverdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("overdue sweep: %w", err)
	}

	due, err := h.actions.DueForReminder(ctx, 48*time.Hour)
	if err != nil {
		return fmt.Errorf("reminder lookup: %w", err)
	}
	for _, item := range due {
		h.logger.Info("action deadline approaching",
			"task", item.Task,
			"owner", item.Owner,
			"deadline", item.Deadline,
		)
	}

	h.logger.Info("action sweep complete", "overdue_flagged", flagged, "reminders", len(due))
	return nil
}
