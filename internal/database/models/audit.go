package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogEntry is immutable once written. No UpdatedAt and no soft delete:
// the table only ever grows, ordered by insertion.
type AuditLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	ActorID   uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `gorm:"index" json:"action"`
	Details   string    `json:"details"`
	RefHash   string    `json:"ref_hash"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
