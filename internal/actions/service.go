package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"gorm.io/gorm"
)

var (
	ErrEditOpen   = errors.New("an edit motion is already open for this action")
	ErrNoEditOpen = errors.New("no edit motion open for this action")
)

// Service tracks board action items. Manual changes go through edit motions;
// inbound channel messages from the action owner apply directly.
type Service struct {
	db       *gorm.DB
	logger   *slog.Logger
	recorder *audit.Recorder
}

func NewService(db *gorm.DB, logger *slog.Logger, recorder *audit.Recorder) *Service {
	return &Service{db: db, logger: logger, recorder: recorder}
}

func (s *Service) List(ctx context.Context) ([]models.ActionItem, error) {
	var items []models.ActionItem
	if err := s.db.WithContext(ctx).
		Preload("Edit").
		Order("deadline ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ActionItem, error) {
	var item models.ActionItem
	if err := s.db.WithContext(ctx).Preload("Edit").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

type CreateInput struct {
	Task     string
	Owner    string
	Deadline time.Time
	Source   string
}

// Create records a new action item. Creation is direct: only subsequent edits
// are governed.
func (s *Service) Create(ctx context.Context, actor *models.User, input CreateInput) (*models.ActionItem, error) {
	item := models.ActionItem{
		Task:       input.Task,
		Owner:      input.Owner,
		Deadline:   input.Deadline,
		Status:     models.ActionStatusPending,
		Source:     input.Source,
		LastUpdate: "Action item created.",
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionItemCreate,
		fmt.Sprintf("Created action item: %s (owner: %s)", item.Task, item.Owner))

	return &item, nil
}

type EditInput struct {
	NewStatus   *models.ActionStatus
	NewTask     *string
	NewDeadline *time.Time
	NewOwner    *string
}

// RequestEdit opens an edit motion. Any board member may propose; the payload
// applies only once someone else approves.
func (s *Service) RequestEdit(ctx context.Context, actor *models.User, actionID uuid.UUID, input EditInput) (*models.ActionEdit, error) {
	if err := governance.CanPropose(governance.MotionActionEdit, actor, false); err != nil {
		return nil, err
	}

	var edit models.ActionEdit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.ActionItem
		if err := tx.Preload("Edit").First(&item, actionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if item.Edit != nil {
			return ErrEditOpen
		}

		edit = models.ActionEdit{
			ActionItemID: item.ID,
			RequestedBy:  actor.ID,
			NewStatus:    input.NewStatus,
			NewTask:      input.NewTask,
			NewDeadline:  input.NewDeadline,
			NewOwner:     input.NewOwner,
		}
		return tx.Create(&edit).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionItemEditRequest,
		"Requested an edit to an action item; awaiting peer approval.")

	return &edit, nil
}

// ApproveEdit records an approval on a pending edit. One approval from anyone
// other than the requester finalizes: the payload applies and the motion
// clears, all in one transaction.
func (s *Service) ApproveEdit(ctx context.Context, actor *models.User, actionID uuid.UUID) (*models.ActionItem, error) {
	var item models.ActionItem
	var finalized bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Edit").First(&item, actionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if item.Edit == nil {
			return ErrNoEditOpen
		}

		reg, err := loadRegistry(tx)
		if err != nil {
			return err
		}

		res, err := governance.Approve(governance.ActionEditMotion(item.Edit), actor, reg)
		if err != nil {
			return err
		}

		if !res.Finalized {
			return tx.Model(item.Edit).Update("approvals", res.Approvals).Error
		}
		finalized = true

		updates := map[string]interface{}{
			"last_update": fmt.Sprintf("Manual update approved by %s", actor.Name),
		}
		if item.Edit.NewStatus != nil {
			updates["status"] = *item.Edit.NewStatus
		}
		if item.Edit.NewTask != nil {
			updates["task"] = *item.Edit.NewTask
		}
		if item.Edit.NewDeadline != nil {
			updates["deadline"] = *item.Edit.NewDeadline
		}
		if item.Edit.NewOwner != nil {
			updates["owner"] = *item.Edit.NewOwner
		}

		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Delete(item.Edit).Error; err != nil {
			return err
		}
		item.Edit = nil
		return tx.First(&item, actionID).Error
	})
	if err != nil {
		return nil, err
	}

	if finalized {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionItemEditFinal,
			fmt.Sprintf("Approved and applied edit to action item: %s", item.Task))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionItemEditVote,
			fmt.Sprintf("Voted to approve edit to action item: %s", item.Task))
	}

	return &item, nil
}

// RecordInboundUpdate applies a progress message from an external channel.
// Owner messages bypass the edit motion: the channel itself is the authority.
func (s *Service) RecordInboundUpdate(ctx context.Context, actionID uuid.UUID, channel, message string) (*models.ActionItem, error) {
	var item models.ActionItem
	if err := s.db.WithContext(ctx).First(&item, actionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrNotFound
		}
		return nil, err
	}

	status := models.ActionStatusInProgress
	lower := strings.ToLower(message)
	if strings.Contains(lower, "complete") || strings.Contains(lower, "done") {
		status = models.ActionStatusCompleted
	}

	updates := map[string]interface{}{
		"status":      status,
		"last_update": fmt.Sprintf("Via %s: %s", channel, message),
	}
	if err := s.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Actor{Name: item.Owner}, audit.ActionItemUpdate,
		fmt.Sprintf("Inbound %s update on '%s': %s", channel, item.Task, message))

	item.Status = status
	item.LastUpdate = updates["last_update"].(string)
	return &item, nil
}

// MarkOverdue flips past-deadline open items to OVERDUE. Run from the
// background sweep; returns how many items changed.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	res := s.db.WithContext(ctx).
		Model(&models.ActionItem{}).
		Where("deadline < ? AND status IN ?", now,
			[]models.ActionStatus{models.ActionStatusPending, models.ActionStatusInProgress}).
		Updates(map[string]interface{}{
			"status":      models.ActionStatusOverdue,
			"last_update": "Deadline passed without completion.",
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		s.recorder.Record(ctx, audit.Actor{Name: "System"}, audit.ActionSystem,
			fmt.Sprintf("Overdue sweep flagged %d action item(s).", res.RowsAffected))
	}

	return int(res.RowsAffected), nil
}

// DueForReminder returns open items whose deadline falls within the window.
func (s *Service) DueForReminder(ctx context.Context, window time.Duration) ([]models.ActionItem, error) {
	var items []models.ActionItem
	now := time.Now()
	if err := s.db.WithContext(ctx).
		Where("deadline BETWEEN ? AND ? AND status IN ?", now, now.Add(window),
			[]models.ActionStatus{models.ActionStatusPending, models.ActionStatusInProgress}).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func loadRegistry(tx *gorm.DB) (governance.Registry, error) {
	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return governance.RegistryFromUsers(users), nil
}
