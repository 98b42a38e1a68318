package models

import (
	"time"

	"github.com/google/uuid"
)

type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "PENDING"
	ActionStatusInProgress ActionStatus = "IN_PROGRESS"
	ActionStatusCompleted  ActionStatus = "COMPLETED"
	ActionStatusOverdue    ActionStatus = "OVERDUE"
)

// ActionItem is a tracked board task. Edits go through a pending-edit motion;
// only inbound channel updates (WhatsApp/email) mutate it directly.
type ActionItem struct {
	Base
	Task       string       `gorm:"not null" json:"task"`
	Owner      string       `json:"owner"`
	Deadline   time.Time    `json:"deadline"`
	Status     ActionStatus `gorm:"default:'PENDING'" json:"status"`
	Source     string       `json:"source"`
	LastUpdate string       `json:"last_update"`

	Edit *ActionEdit `gorm:"foreignKey:ActionItemID" json:"pending_edit,omitempty"`
}

func (ActionItem) TableName() string {
	return "action_items"
}

// ActionEdit is a pending motion proposing changes to an action item. Nil
// fields mean "leave unchanged".
type ActionEdit struct {
	Base
	ActionItemID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"action_item_id"`
	RequestedBy  uuid.UUID `gorm:"type:uuid" json:"requested_by"`
	Approvals    UUIDArray `gorm:"type:text" json:"approvals"`

	NewStatus   *ActionStatus `json:"new_status,omitempty"`
	NewTask     *string       `json:"new_task,omitempty"`
	NewDeadline *time.Time    `json:"new_deadline,omitempty"`
	NewOwner    *string       `json:"new_owner,omitempty"`
}

func (ActionEdit) TableName() string {
	return "action_edits"
}
