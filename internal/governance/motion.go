package governance

import (
	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/database/models"
)

// MotionKind selects the finalize policy for a pending motion.
type MotionKind string

const (
	MotionOnboarding       MotionKind = "ONBOARDING"
	MotionTermination      MotionKind = "TERMINATION"
	MotionPasswordReset    MotionKind = "PASSWORD_RESET"
	MotionActionEdit       MotionKind = "ACTION_EDIT"
	MotionDocumentDeletion MotionKind = "DOCUMENT_DELETION"
)

// Motion is a snapshot of a pending motion, detached from whichever entity
// owns it. Build one with the constructors below, pass it to Approve, then
// write the returned approval set back inside the same transaction.
type Motion struct {
	Kind        MotionKind
	RequesterID uuid.UUID // uuid.Nil for system-created onboarding motions
	Approvals   models.UUIDArray

	// Onboarding only: whether the target's compliance documents are on file.
	DocsOnFile bool
}

func OnboardingMotion(target *models.User) Motion {
	return Motion{
		Kind:       MotionOnboarding,
		Approvals:  target.OnboardingApprovals,
		DocsOnFile: target.HasComplianceDocs(),
	}
}

func TerminationMotion(target *models.User) Motion {
	// The initiator's vote was auto-recorded at proposal time; treating them
	// as requester too would wrongly bar a second vote they never get.
	return Motion{
		Kind:      MotionTermination,
		Approvals: target.TerminationApprovals,
	}
}

func PasswordResetMotion(req *models.PasswordResetRequest) Motion {
	return Motion{
		Kind:        MotionPasswordReset,
		RequesterID: req.RequestedBy,
		Approvals:   req.Approvals,
	}
}

func ActionEditMotion(edit *models.ActionEdit) Motion {
	return Motion{
		Kind:        MotionActionEdit,
		RequesterID: edit.RequestedBy,
		Approvals:   edit.Approvals,
	}
}

func DocumentDeletionMotion(del *models.DocumentDeletion) Motion {
	return Motion{
		Kind:        MotionDocumentDeletion,
		RequesterID: del.RequestedBy,
		Approvals:   del.Approvals,
	}
}

// CanPropose enforces the propose-role column of the policy table.
// actingOnSelf matters only for kinds where self-service is redirected.
func CanPropose(kind MotionKind, actor *models.User, actingOnSelf bool) error {
	switch kind {
	case MotionOnboarding:
		// System-created on registration; nobody proposes these.
		return ErrPermissionDenied
	case MotionTermination:
		if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
			return ErrPermissionDenied
		}
	case MotionPasswordReset:
		if actor.Role != models.RoleSecretary {
			return ErrPermissionDenied
		}
		if actingOnSelf {
			return ErrSelfAction
		}
	case MotionDocumentDeletion:
		if actor.Role != models.RoleSecretary {
			return ErrPermissionDenied
		}
	case MotionActionEdit:
		// Any authenticated actor may propose an edit.
	}
	return nil
}

// VoteResult carries the outcome of a successful vote. When Finalized is set
// the caller must apply the motion's payload and clear the pending state in
// the same transaction that persists Approvals.
type VoteResult struct {
	Approvals models.UUIDArray
	Tally     Tally
	Finalized bool
}

// Approve validates the actor's vote against the motion's policy and returns
// the updated approval set plus the finalize decision. Pure function: nothing
// is persisted here and a returned error means nothing changed.
func Approve(m Motion, actor *models.User, reg Registry) (VoteResult, error) {
	if actor.ID == m.RequesterID {
		return VoteResult{}, ErrConflictOfInterest
	}
	if m.Approvals.Contains(actor.ID) {
		return VoteResult{}, ErrDuplicateVote
	}

	switch m.Kind {
	case MotionOnboarding:
		if !m.DocsOnFile {
			return VoteResult{}, ErrDocumentsMissing
		}
		fallthrough
	case MotionTermination:
		// The secretary signs off last: their vote is rejected until two
		// directors are already on record.
		if actor.Role == models.RoleSecretary && Count(m.Approvals, reg).DirectorCount < 2 {
			return VoteResult{}, ErrProtocolViolation
		}
	case MotionPasswordReset:
		if !actor.Role.IsDirector() {
			return VoteResult{}, ErrInsufficientAuthority
		}
	case MotionActionEdit, MotionDocumentDeletion:
		// Requester exclusion and duplicate guard above are the only gates.
	}

	approvals := append(append(models.UUIDArray{}, m.Approvals...), actor.ID)
	tally := Count(approvals, reg)

	return VoteResult{
		Approvals: approvals,
		Tally:     tally,
		Finalized: quorumMet(m.Kind, approvals, tally),
	}, nil
}

// quorumMet implements the finalize column of the policy table.
func quorumMet(kind MotionKind, approvals models.UUIDArray, tally Tally) bool {
	switch kind {
	case MotionOnboarding, MotionTermination:
		return tally.DirectorCount >= 2 && tally.HasSecretary
	case MotionPasswordReset, MotionActionEdit, MotionDocumentDeletion:
		return len(approvals) >= 1
	}
	return false
}
