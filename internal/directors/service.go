package directors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrNotPending     = errors.New("user is not awaiting onboarding approval")
	ErrNotTerminating = errors.New("no termination proceedings open for user")
	ErrResetOpen      = errors.New("a password reset motion is already open")
	ErrBadTransition  = errors.New("status does not allow this transition")
)

// Service owns the director roster. Every multi-party mutation goes through
// the governance motion rules; freeze/unfreeze and profile edits are direct
// secretary-only mutations.
type Service struct {
	db        *gorm.DB
	logger    *slog.Logger
	recorder  *audit.Recorder
	encryptor *crypto.Encryptor
	issuer    crypto.SecretIssuer
}

func NewService(db *gorm.DB, logger *slog.Logger, recorder *audit.Recorder, encryptor *crypto.Encryptor, issuer crypto.SecretIssuer) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		recorder:  recorder,
		encryptor: encryptor,
		issuer:    issuer,
	}
}

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	Role             models.UserRole
	AvatarURL        string
	CertifiedID      bool
	ProofOfResidence bool
	CV               bool
}

// Register submits a new director profile. The account starts in
// PENDING_APPROVAL with an empty approval set; the onboarding motion is
// system-created, nobody proposes it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:            input.Email,
		PasswordHash:     hash,
		Name:             input.Name,
		Initials:         initials(input.Name),
		AvatarURL:        input.AvatarURL,
		Role:             input.Role,
		Status:           models.StatusPendingApproval,
		CertifiedID:      input.CertifiedID,
		ProofOfResidence: input.ProofOfResidence,
		CV:               input.CV,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(&user), audit.ActionProfileCreate,
		fmt.Sprintf("New director registration: %s", user.Name))

	return &user, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Preload("PasswordReset").
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("PasswordReset").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// VoteOutcome reports the state of a motion after a successful vote.
type VoteOutcome struct {
	Tally     governance.Tally  `json:"tally"`
	Finalized bool              `json:"finalized"`
	Status    models.UserStatus `json:"status"`
}

// ApproveOnboarding records the actor's vote on a pending registration. The
// vote, the approval set and (on quorum) the status flip commit in a single
// transaction, so two concurrent approvers cannot both apply the payload.
func (s *Service) ApproveOnboarding(ctx context.Context, actor *models.User, targetID uuid.UUID) (*VoteOutcome, error) {
	var outcome VoteOutcome
	var target models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if target.Status != models.StatusPendingApproval {
			return ErrNotPending
		}

		reg, err := loadRegistry(tx)
		if err != nil {
			return err
		}

		res, err := governance.Approve(governance.OnboardingMotion(&target), actor, reg)
		if err != nil {
			return err
		}

		target.OnboardingApprovals = res.Approvals
		if res.Finalized {
			target.Status = models.StatusActive
		}

		if err := tx.Model(&target).Updates(map[string]interface{}{
			"onboarding_approvals": target.OnboardingApprovals,
			"status":               target.Status,
		}).Error; err != nil {
			return err
		}

		outcome = VoteOutcome{Tally: res.Tally, Finalized: res.Finalized, Status: target.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Finalized {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionUserApprovalFinal,
			fmt.Sprintf("Secretary final sign-off: activated user %s", target.Name))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionUserApprovalVote,
			fmt.Sprintf("Voted to approve user %s", target.Name))
	}

	return &outcome, nil
}

// InitiateTermination opens termination proceedings. The initiator's vote is
// auto-recorded as the first approval.
func (s *Service) InitiateTermination(ctx context.Context, actor *models.User, targetID uuid.UUID, reason string) (*models.User, error) {
	if err := governance.CanPropose(governance.MotionTermination, actor, actor.ID == targetID); err != nil {
		return nil, err
	}

	var target models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if target.Status != models.StatusActive && target.Status != models.StatusFrozen {
			return ErrBadTransition
		}

		target.Status = models.StatusPendingTermination
		target.TerminationApprovals = models.UUIDArray{actor.ID}
		target.TerminationReason = reason

		return tx.Model(&target).Updates(map[string]interface{}{
			"status":                target.Status,
			"termination_approvals": target.TerminationApprovals,
			"termination_reason":    target.TerminationReason,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionTerminationInit,
		fmt.Sprintf("Initiated termination proceedings for %s. Reason: %s", target.Name, reason))

	return &target, nil
}

// VoteTermination records a termination vote; quorum archives the user.
func (s *Service) VoteTermination(ctx context.Context, actor *models.User, targetID uuid.UUID) (*VoteOutcome, error) {
	var outcome VoteOutcome
	var target models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if target.Status != models.StatusPendingTermination {
			return ErrNotTerminating
		}

		reg, err := loadRegistry(tx)
		if err != nil {
			return err
		}

		res, err := governance.Approve(governance.TerminationMotion(&target), actor, reg)
		if err != nil {
			return err
		}

		target.TerminationApprovals = res.Approvals
		if res.Finalized {
			target.Status = models.StatusTerminated
		}

		if err := tx.Model(&target).Updates(map[string]interface{}{
			"termination_approvals": target.TerminationApprovals,
			"status":                target.Status,
		}).Error; err != nil {
			return err
		}

		outcome = VoteOutcome{Tally: res.Tally, Finalized: res.Finalized, Status: target.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Finalized {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionTerminationFinal,
			fmt.Sprintf("Secretary final sign-off: terminated user %s", target.Name))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionTerminationVote,
			fmt.Sprintf("Voted to terminate user %s", target.Name))
	}

	return &outcome, nil
}

// ToggleFreeze flips ACTIVE<->FROZEN. Secretary only, never on themself, and
// not a governed motion: no votes, just a logged direct mutation.
func (s *Service) ToggleFreeze(ctx context.Context, actor *models.User, targetID uuid.UUID) (*models.User, error) {
	if actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}
	if actor.ID == targetID {
		return nil, governance.ErrSelfAction
	}

	var target models.User
	var frozen bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}

		switch target.Status {
		case models.StatusActive:
			target.Status = models.StatusFrozen
			frozen = true
		case models.StatusFrozen:
			target.Status = models.StatusActive
		default:
			return ErrBadTransition
		}

		return tx.Model(&target).Update("status", target.Status).Error
	})
	if err != nil {
		return nil, err
	}

	if frozen {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionUserFreeze,
			fmt.Sprintf("Frozen account for %s", target.Name))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionUserUnfreeze,
			fmt.Sprintf("Unfrozen account for %s", target.Name))
	}

	return &target, nil
}

type ProfileUpdate struct {
	Name             *string
	Email            *string
	Role             *models.UserRole
	AvatarURL        *string
	CertifiedID      *bool
	ProofOfResidence *bool
	CV               *bool
}

// UpdateProfile is a direct secretary-only mutation, logged but not voted on.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, targetID uuid.UUID, input ProfileUpdate) (*models.User, error) {
	if actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	var target models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
			updates["initials"] = initials(*input.Name)
		}
		if input.Email != nil {
			updates["email"] = *input.Email
		}
		if input.Role != nil {
			updates["role"] = *input.Role
		}
		if input.AvatarURL != nil {
			updates["avatar_url"] = *input.AvatarURL
		}
		if input.CertifiedID != nil {
			updates["certified_id"] = *input.CertifiedID
		}
		if input.ProofOfResidence != nil {
			updates["proof_of_residence"] = *input.ProofOfResidence
		}
		if input.CV != nil {
			updates["cv"] = *input.CV
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&target).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&target, targetID).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionProfileUpdate,
		fmt.Sprintf("Updated profile details for user: %s", target.Name))

	return &target, nil
}

// RequestPasswordReset opens a reset motion for a locked-out director. The
// temporary credential is generated now, sealed at rest, and only revealed
// when a director approves.
func (s *Service) RequestPasswordReset(ctx context.Context, actor *models.User, targetID uuid.UUID, reason string) error {
	if err := governance.CanPropose(governance.MotionPasswordReset, actor, actor.ID == targetID); err != nil {
		return err
	}

	tempPassword, err := s.issuer.TempPassword()
	if err != nil {
		return err
	}
	sealed, err := s.encryptor.EncryptString(tempPassword)
	if err != nil {
		return err
	}

	var target models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("PasswordReset").First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if target.PasswordReset != nil {
			return ErrResetOpen
		}

		return tx.Create(&models.PasswordResetRequest{
			UserID:       target.ID,
			RequestedBy:  actor.ID,
			Reason:       reason,
			SealedSecret: sealed,
		}).Error
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionPwdChangeInit,
		fmt.Sprintf("Secretary initiated password reset for %s. Reason: %s", target.Name, reason))

	return nil
}

// ResetOutcome carries the finalize result of a password-reset vote. The
// temporary credential is only present once the motion finalizes.
type ResetOutcome struct {
	Finalized    bool   `json:"finalized"`
	TempPassword string `json:"temp_password,omitempty"`
}

// ApprovePasswordReset records a director's approval. One approval finalizes:
// the sealed credential becomes the account password and the motion clears.
func (s *Service) ApprovePasswordReset(ctx context.Context, actor *models.User, targetID uuid.UUID) (*ResetOutcome, error) {
	var outcome ResetOutcome
	var target models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("PasswordReset").First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return governance.ErrNotFound
			}
			return err
		}
		if target.PasswordReset == nil {
			return governance.ErrNotFound
		}

		reg, err := loadRegistry(tx)
		if err != nil {
			return err
		}

		res, err := governance.Approve(governance.PasswordResetMotion(target.PasswordReset), actor, reg)
		if err != nil {
			return err
		}

		if !res.Finalized {
			outcome = ResetOutcome{}
			return tx.Model(target.PasswordReset).Update("approvals", res.Approvals).Error
		}

		tempPassword, err := s.encryptor.DecryptString(target.PasswordReset.SealedSecret)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(tempPassword)
		if err != nil {
			return err
		}

		if err := tx.Model(&target).Update("password_hash", hash).Error; err != nil {
			return err
		}
		if err := tx.Delete(target.PasswordReset).Error; err != nil {
			return err
		}

		outcome = ResetOutcome{Finalized: true, TempPassword: tempPassword}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Finalized {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionPwdChangeFinal,
			fmt.Sprintf("Password reset finalized for %s. Approved by %s.", target.Name, actor.Name))
	} else {
		s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionPwdChangeVote,
			fmt.Sprintf("Voted to approve password reset for %s", target.Name))
	}

	return &outcome, nil
}

// ForgotPassword handles the self-service flow. It always reports success so
// the endpoint cannot be used to enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return
	}
	s.recorder.Record(ctx, audit.ActorFromUser(&user), audit.ActionPwdResetRequest,
		"Self-service password reset requested via email.")
}

func loadRegistry(tx *gorm.DB) (governance.Registry, error) {
	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return governance.RegistryFromUsers(users), nil
}

func initials(name string) string {
	parts := strings.Fields(name)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
