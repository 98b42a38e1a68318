package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypePack       DocumentType = "PACK"
	DocumentTypeMinutes    DocumentType = "MINUTES"
	DocumentTypePolicy     DocumentType = "POLICY"
	DocumentTypeFinancials DocumentType = "FINANCIALS"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypePack, DocumentTypeMinutes, DocumentTypePolicy, DocumentTypeFinancials:
		return true
	}
	return false
}

// Document holds repository metadata only. Binary content lives with the
// external storage collaborator and never passes through this service.
type Document struct {
	Base
	Title      string       `gorm:"not null" json:"title"`
	Type       DocumentType `gorm:"not null" json:"type"`
	Date       time.Time    `json:"date"`
	SizeLabel  string       `json:"size_label"`
	UploadedBy string       `json:"uploaded_by"`

	Deletion *DocumentDeletion `gorm:"foreignKey:DocumentID" json:"pending_deletion,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentDeletion is a pending motion to remove a document. Finalizing it
// deletes the row outright rather than archiving it.
type DocumentDeletion struct {
	Base
	DocumentID  uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"document_id"`
	RequestedBy uuid.UUID `gorm:"type:uuid" json:"requested_by"`
	Approvals   UUIDArray `gorm:"type:text" json:"approvals"`
}

func (DocumentDeletion) TableName() string {
	return "document_deletions"
}
