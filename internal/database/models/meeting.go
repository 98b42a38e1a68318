package models

import (
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "SCHEDULED"
	MeetingStatusLive      MeetingStatus = "LIVE"
	MeetingStatusClosed    MeetingStatus = "CLOSED"
)

// Meeting is not approval-gated; scheduling and updates are direct mutations
// by the secretary or chairperson.
type Meeting struct {
	Base
	Title           string        `gorm:"not null" json:"title"`
	Date            time.Time     `json:"date"`
	Location        string        `json:"location"`
	Status          MeetingStatus `gorm:"default:'SCHEDULED'" json:"status"`
	ComplianceScore int           `json:"compliance_score"`

	Agenda []AgendaItem `gorm:"foreignKey:MeetingID" json:"agenda,omitempty"`
}

func (Meeting) TableName() string {
	return "meetings"
}

type AgendaItem struct {
	Base
	MeetingID         uuid.UUID `gorm:"type:uuid;index" json:"meeting_id"`
	Title             string    `gorm:"not null" json:"title"`
	Presenter         string    `json:"presenter"`
	DurationMinutes   int       `json:"duration_minutes"`
	IsComplianceCheck bool      `json:"is_compliance_check"`
	Position          int       `json:"position"`
	Documents         string    `gorm:"default:'[]'" json:"documents"` // JSON array of file names
}

func (AgendaItem) TableName() string {
	return "agenda_items"
}
