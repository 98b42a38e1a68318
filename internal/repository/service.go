package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"gorm.io/gorm"
)

var (
	ErrDeletionOpen   = errors.New("a deletion motion is already open for this document")
	ErrNoDeletionOpen = errors.New("no deletion motion open for this document")
	ErrBadType        = errors.New("unknown document type")
)

// Service manages the board document register. Entries are metadata only;
// binaries live elsewhere. Uploads are direct, deletions are governed.
type Service struct {
	db       *gorm.DB
	logger   *slog.Logger
	recorder *audit.Recorder
}

func NewService(db *gorm.DB, logger *slog.Logger, recorder *audit.Recorder) *Service {
	return &Service{db: db, logger: logger, recorder: recorder}
}

func (s *Service) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).
		Preload("Deletion").
		Order("date DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).Preload("Deletion").First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

type UploadInput struct {
	Title     string
	Type      models.DocumentType
	SizeLabel string
}

func (s *Service) Upload(ctx context.Context, actor *models.User, input UploadInput) (*models.Document, error) {
	if !input.Type.Valid() {
		return nil, ErrBadType
	}

	doc := models.Document{
		Title:      input.Title,
		Type:       input.Type,
		Date:       time.Now(),
		SizeLabel:  input.SizeLabel,
		UploadedBy: actor.Name,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionDocUpload,
		fmt.Sprintf("Uploaded document: %s (%s)", doc.Title, doc.Type))

	return &doc, nil
}

// RecordGenerated registers a system-produced document (e.g. drafted minutes)
// under a named author without an audit upload entry; the caller records the
// generation event itself.
func (s *Service) RecordGenerated(ctx context.Context, title string, docType models.DocumentType, author string) (*models.Document, error) {
	doc := models.Document{
		Title:      title,
		Type:       docType,
		Date:       time.Now(),
		SizeLabel:  "n/a",
		UploadedBy: author,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// RequestDeletion opens a deletion motion. Secretary only; the register is
// evidentiary, so nothing disappears on one person's say-so.
func (s *Service) RequestDeletion(ctx context.Context, actor *models.User, docID uuid.UUID) (*models.DocumentDeletion, error) {
	if err := governance.CanPropose(governance.MotionDocumentDeletion, actor, false); err != nil {
		return nil, err
	}

	var del models.DocumentDeletion
	var doc models.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Deletion").First(&doc, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if doc.Deletion != nil {
			return ErrDeletionOpen
		}

		del = models.DocumentDeletion{
			DocumentID:  doc.ID,
			RequestedBy: actor.ID,
		}
		return tx.Create(&del).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionDocDeleteRequest,
		fmt.Sprintf("Requested deletion of document: %s", doc.Title))

	return &del, nil
}

// ApproveDeletion records a vote on a pending deletion. One approval from a
// board member other than the requester finalizes and removes the register
// entry for good.
func (s *Service) ApproveDeletion(ctx context.Context, actor *models.User, docID uuid.UUID) (bool, error) {
	var doc models.Document
	var finalized bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Deletion").First(&doc, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if doc.Deletion == nil {
			return ErrNoDeletionOpen
		}

		reg, err := loadRegistry(tx)
		if err != nil {
			return err
		}

		res, err := governance.Approve(governance.DocumentDeletionMotion(doc.Deletion), actor, reg)
		if err != nil {
			return err
		}

		if !res.Finalized {
			return tx.Model(doc.Deletion).Update("approvals", res.Approvals).Error
		}
		finalized = true

		if err := tx.Delete(doc.Deletion).Error; err != nil {
			return err
		}
		// Hard delete: a soft-deleted register entry would still be a record.
		return tx.Unscoped().Delete(&doc).Error
	})
	if err != nil {
		return false, err
	}

	if finalized {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionDocDeleteFinal,
			fmt.Sprintf("Approved deletion; removed document: %s", doc.Title))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionDocDeleteVote,
			fmt.Sprintf("Voted to approve deletion of document: %s", doc.Title))
	}

	return finalized, nil
}

func loadRegistry(tx *gorm.DB) (governance.Registry, error) {
	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return governance.RegistryFromUsers(users), nil
}
