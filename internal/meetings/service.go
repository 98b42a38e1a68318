package meetings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/tasks"
	"github.com/thabo/boardwise/internal/voting"
	"gorm.io/gorm"
)

var (
	ErrNotLive       = errors.New("meeting is not in session")
	ErrAlreadyOver   = errors.New("meeting already closed")
	ErrBadTransition = errors.New("status does not allow this transition")
)

// Enqueuer is the slice of the asynq client the service needs. Nil disables
// background drafting without affecting meeting state.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service manages the meeting lifecycle. Scheduling and agenda edits are
// direct chair/secretary mutations; only the floor resolution inside a live
// meeting is governed, via the voting sessions.
type Service struct {
	db       *gorm.DB
	logger   *slog.Logger
	recorder *audit.Recorder
	sessions *voting.Sessions
	queue    Enqueuer
}

func NewService(db *gorm.DB, logger *slog.Logger, recorder *audit.Recorder, sessions *voting.Sessions, queue Enqueuer) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		recorder: recorder,
		sessions: sessions,
		queue:    queue,
	}
}

func (s *Service) List(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := s.db.WithContext(ctx).
		Preload("Agenda", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("date ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := s.db.WithContext(ctx).
		Preload("Agenda", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&meeting, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

type AgendaItemInput struct {
	Title             string
	Presenter         string
	DurationMinutes   int
	IsComplianceCheck bool
	Documents         string
}

type ScheduleInput struct {
	Title    string
	Date     time.Time
	Location string
	Agenda   []AgendaItemInput
}

// Schedule creates a meeting. Chair or secretary only. A strategy drafting
// task is enqueued best-effort; scheduling never waits on it.
func (s *Service) Schedule(ctx context.Context, actor *models.User, input ScheduleInput) (*models.Meeting, error) {
	if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	meeting := models.Meeting{
		Title:    input.Title,
		Date:     input.Date,
		Location: input.Location,
		Status:   models.MeetingStatusScheduled,
	}
	for i, item := range input.Agenda {
		meeting.Agenda = append(meeting.Agenda, models.AgendaItem{
			Title:             item.Title,
			Presenter:         item.Presenter,
			DurationMinutes:   item.DurationMinutes,
			IsComplianceCheck: item.IsComplianceCheck,
			Position:          i,
			Documents:         item.Documents,
		})
	}

	if err := s.db.WithContext(ctx).Create(&meeting).Error; err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingSchedule,
		fmt.Sprintf("Scheduled meeting: %s on %s", meeting.Title, meeting.Date.Format("2 Jan 2006")))

	if s.queue != nil {
		if task, err := tasks.NewDraftStrategyTask(meeting.ID, meeting.Title); err == nil {
			if _, err := s.queue.Enqueue(task); err != nil {
				s.logger.Warn("could not enqueue strategy drafting", "error", err)
			}
		}
	}

	return &meeting, nil
}

type UpdateInput struct {
	Title    *string
	Date     *time.Time
	Location *string
	Agenda   []AgendaItemInput // non-nil replaces the whole agenda
}

// Update edits a scheduled or live meeting. Closed meetings are immutable.
func (s *Service) Update(ctx context.Context, actor *models.User, meetingID uuid.UUID, input UpdateInput) (*models.Meeting, error) {
	if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	var meeting models.Meeting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if meeting.Status == models.MeetingStatusClosed {
			return ErrAlreadyOver
		}

		updates := map[string]interface{}{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.Date != nil {
			updates["date"] = *input.Date
		}
		if input.Location != nil {
			updates["location"] = *input.Location
		}
		if len(updates) > 0 {
			if err := tx.Model(&meeting).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.Agenda != nil {
			if err := tx.Where("meeting_id = ?", meeting.ID).Delete(&models.AgendaItem{}).Error; err != nil {
				return err
			}
			for i, item := range input.Agenda {
				if err := tx.Create(&models.AgendaItem{
					MeetingID:         meeting.ID,
					Title:             item.Title,
					Presenter:         item.Presenter,
					DurationMinutes:   item.DurationMinutes,
					IsComplianceCheck: item.IsComplianceCheck,
					Position:          i,
					Documents:         item.Documents,
				}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Preload("Agenda", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).First(&meeting, meetingID).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingUpdate,
		fmt.Sprintf("Updated meeting: %s", meeting.Title))

	return &meeting, nil
}

// Start moves a scheduled meeting to LIVE. Chair or secretary only.
func (s *Service) Start(ctx context.Context, actor *models.User, meetingID uuid.UUID) (*models.Meeting, error) {
	if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	meeting, err := s.transition(ctx, meetingID, models.MeetingStatusScheduled, models.MeetingStatusLive)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingUpdate,
		fmt.Sprintf("Opened meeting: %s", meeting.Title))

	return meeting, nil
}

// Join records attendance in the audit trail. Attendance is evidentiary, not
// a mutation of meeting state.
func (s *Service) Join(ctx context.Context, actor *models.User, meetingID uuid.UUID) error {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Status != models.MeetingStatusLive {
		return ErrNotLive
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingAttendance,
		fmt.Sprintf("Joined meeting: %s", meeting.Title))
	return nil
}

// Leave records departure from a live meeting.
func (s *Service) Leave(ctx context.Context, actor *models.User, meetingID uuid.UUID) error {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingAttendance,
		fmt.Sprintf("Left meeting: %s", meeting.Title))
	return nil
}

// DeclareInterests records a member's declaration for the conflicts register.
func (s *Service) DeclareInterests(ctx context.Context, actor *models.User, meetingID uuid.UUID, declaration string) error {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Status != models.MeetingStatusLive {
		return ErrNotLive
	}

	detail := "Declared no conflicts of interest."
	if declaration != "" {
		detail = fmt.Sprintf("Declared interest: %s", declaration)
	}
	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionComplianceDeclaration,
		fmt.Sprintf("%s (meeting: %s)", detail, meeting.Title))
	return nil
}

// Close ends a live meeting. The floor session's final tally is read and
// discarded, and minutes drafting is enqueued with that snapshot. The status
// flip never waits on, or fails with, the drafting pipeline.
func (s *Service) Close(ctx context.Context, actor *models.User, meetingID uuid.UUID) (*models.Meeting, error) {
	if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	meeting, err := s.transition(ctx, meetingID, models.MeetingStatusLive, models.MeetingStatusClosed)
	if err != nil {
		return nil, err
	}

	resolution, tally, hadFloor := s.sessions.Close(meetingID)

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionMeetingClosed,
		fmt.Sprintf("Closed meeting: %s", meeting.Title))

	if s.queue != nil {
		payload := tasks.DraftMinutesPayload{
			MeetingID:    meeting.ID,
			MeetingTitle: meeting.Title,
		}
		if hadFloor {
			payload.ResolutionText = resolution.Text
			payload.TallySummary = fmt.Sprintf("FOR %d / AGAINST %d / ABSTAIN %d",
				tally.For, tally.Against, tally.Abstain)
		}
		if task, err := tasks.NewDraftMinutesTask(payload); err == nil {
			if _, err := s.queue.Enqueue(task); err != nil {
				s.logger.Warn("could not enqueue minutes drafting", "error", err)
			}
		}
	}

	return meeting, nil
}

// SetComplianceScore stores the advisory agenda review score.
func (s *Service) SetComplianceScore(ctx context.Context, meetingID uuid.UUID, score int) error {
	return s.db.WithContext(ctx).
		Model(&models.Meeting{}).
		Where("id = ?", meetingID).
		Update("compliance_score", score).Error
}

func (s *Service) transition(ctx context.Context, meetingID uuid.UUID, from, to models.MeetingStatus) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if meeting.Status != from {
			if meeting.Status == models.MeetingStatusClosed {
				return ErrAlreadyOver
			}
			return ErrBadTransition
		}
		meeting.Status = to
		return tx.Model(&meeting).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}
