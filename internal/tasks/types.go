package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type identifiers.
const (
	TypeDraftStrategy = "drafting:strategy"
	TypeDraftMinutes  = "drafting:minutes"
	TypeActionSweep   = "actions:sweep"
)

// DraftStrategyPayload requests a pre-meeting strategy plan.
type DraftStrategyPayload struct {
	MeetingID    uuid.UUID `json:"meeting_id"`
	MeetingTitle string    `json:"meeting_title"`
}

// DraftMinutesPayload requests minutes for a closed meeting. TallySummary is
// preformatted because the voting session no longer exists by the time the
// worker runs.
type DraftMinutesPayload struct {
	MeetingID      uuid.UUID `json:"meeting_id"`
	MeetingTitle   string    `json:"meeting_title"`
	ResolutionText string    `json:"resolution_text"`
	TallySummary   string    `json:"tally_summary"`
}

// NewDraftStrategyTask creates a strategy drafting task.
func NewDraftStrategyTask(meetingID uuid.UUID, title string) (*asynq.Task, error) {
	payload, err := json.Marshal(DraftStrategyPayload{MeetingID: meetingID, MeetingTitle: title})
	if err != nil {
		return nil, fmt.Errorf("marshaling strategy payload: %w", err)
	}
	return asynq.NewTask(TypeDraftStrategy, payload,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	), nil
}

// NewDraftMinutesTask creates a minutes drafting task for a closed meeting.
func NewDraftMinutesTask(p DraftMinutesPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling minutes payload: %w", err)
	}
	return asynq.NewTask(TypeDraftMinutes, payload,
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	), nil
}

// NewActionSweepTask creates the periodic overdue/reminder sweep task.
func NewActionSweepTask() *asynq.Task {
	return asynq.NewTask(TypeActionSweep, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
		asynq.Timeout(1*time.Minute),
	)
}
