package governance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/database/models"
)

func boardMember(role models.UserRole) *models.User {
	return &models.User{
		Base:   models.Base{ID: uuid.New()},
		Role:   role,
		Status: models.StatusActive,
	}
}

func registryFor(users ...*models.User) Registry {
	reg := make(Registry, len(users))
	for _, u := range users {
		reg[u.ID] = u.Role
	}
	return reg
}

func pendingDirector() *models.User {
	u := boardMember(models.RoleNonExecutive)
	u.Status = models.StatusPendingApproval
	u.CertifiedID = true
	u.ProofOfResidence = true
	u.CV = true
	return u
}

func TestApprove_OnboardingFullProtocol(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	exec := boardMember(models.RoleExecutive)
	sec := boardMember(models.RoleSecretary)
	target := pendingDirector()
	reg := registryFor(chair, exec, sec, target)

	// First director vote: recorded, not finalized.
	res, err := Approve(OnboardingMotion(target), chair, reg)
	require.NoError(t, err)
	assert.Equal(t, Tally{DirectorCount: 1}, res.Tally)
	assert.False(t, res.Finalized)
	target.OnboardingApprovals = res.Approvals

	// Second director vote: still waiting on the secretary.
	res, err = Approve(OnboardingMotion(target), exec, reg)
	require.NoError(t, err)
	assert.Equal(t, Tally{DirectorCount: 2}, res.Tally)
	assert.False(t, res.Finalized)
	target.OnboardingApprovals = res.Approvals

	// Secretary sign-off completes the quorum.
	res, err = Approve(OnboardingMotion(target), sec, reg)
	require.NoError(t, err)
	assert.Equal(t, Tally{DirectorCount: 2, HasSecretary: true}, res.Tally)
	assert.True(t, res.Finalized)
}

func TestApprove_SecretaryCannotVoteEarly(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	sec := boardMember(models.RoleSecretary)
	target := pendingDirector()
	reg := registryFor(chair, sec, target)

	// No director votes yet.
	_, err := Approve(OnboardingMotion(target), sec, reg)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	// One director vote is still not enough for the secretary to sign off,
	// so finalizing with a single director is impossible in any order.
	res, err := Approve(OnboardingMotion(target), chair, reg)
	require.NoError(t, err)
	target.OnboardingApprovals = res.Approvals

	_, err = Approve(OnboardingMotion(target), sec, reg)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestApprove_OnboardingDocumentsMissing(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	target := pendingDirector()
	target.CV = false
	reg := registryFor(chair, target)

	_, err := Approve(OnboardingMotion(target), chair, reg)
	assert.ErrorIs(t, err, ErrDocumentsMissing)
}

func TestApprove_DuplicateVoteDoesNotDoubleCount(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	target := pendingDirector()
	reg := registryFor(chair, target)

	res, err := Approve(OnboardingMotion(target), chair, reg)
	require.NoError(t, err)
	target.OnboardingApprovals = res.Approvals
	require.Len(t, target.OnboardingApprovals, 1)

	_, err = Approve(OnboardingMotion(target), chair, reg)
	assert.ErrorIs(t, err, ErrDuplicateVote)
	assert.Len(t, target.OnboardingApprovals, 1)
}

func TestApprove_RequesterExclusion(t *testing.T) {
	sec := boardMember(models.RoleSecretary)
	exec := boardMember(models.RoleExecutive)
	reg := registryFor(sec, exec)

	del := &models.DocumentDeletion{RequestedBy: sec.ID}

	_, err := Approve(DocumentDeletionMotion(del), sec, reg)
	assert.ErrorIs(t, err, ErrConflictOfInterest)

	// Any single non-requester approval finalizes.
	res, err := Approve(DocumentDeletionMotion(del), exec, reg)
	require.NoError(t, err)
	assert.True(t, res.Finalized)
	assert.NotContains(t, res.Approvals, sec.ID)
}

func TestApprove_ActionEditSingleApproval(t *testing.T) {
	exec := boardMember(models.RoleExecutive)
	nonexec := boardMember(models.RoleNonExecutive)
	reg := registryFor(exec, nonexec)

	edit := &models.ActionEdit{RequestedBy: exec.ID}

	_, err := Approve(ActionEditMotion(edit), exec, reg)
	assert.ErrorIs(t, err, ErrConflictOfInterest)

	res, err := Approve(ActionEditMotion(edit), nonexec, reg)
	require.NoError(t, err)
	assert.True(t, res.Finalized)
}

func TestApprove_PasswordResetNeedsDirector(t *testing.T) {
	sec := boardMember(models.RoleSecretary)
	otherSec := boardMember(models.RoleSecretary)
	exec := boardMember(models.RoleExecutive)
	reg := registryFor(sec, otherSec, exec)

	req := &models.PasswordResetRequest{RequestedBy: sec.ID}

	// A secretary cannot supply the director approval.
	_, err := Approve(PasswordResetMotion(req), otherSec, reg)
	assert.ErrorIs(t, err, ErrInsufficientAuthority)

	res, err := Approve(PasswordResetMotion(req), exec, reg)
	require.NoError(t, err)
	assert.True(t, res.Finalized)
	assert.Len(t, res.Approvals, 1)
}

func TestApprove_NeverContainsRequester(t *testing.T) {
	sec := boardMember(models.RoleSecretary)
	chair := boardMember(models.RoleChairperson)
	exec := boardMember(models.RoleExecutive)
	reg := registryFor(sec, chair, exec)

	req := &models.PasswordResetRequest{RequestedBy: sec.ID}
	for _, voter := range []*models.User{chair, exec} {
		res, err := Approve(PasswordResetMotion(req), voter, reg)
		if err != nil {
			continue
		}
		assert.NotContains(t, res.Approvals, req.RequestedBy)
		req.Approvals = res.Approvals
	}
}

func TestApprove_TerminationQuorum(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	exec := boardMember(models.RoleExecutive)
	nonexec := boardMember(models.RoleNonExecutive)
	sec := boardMember(models.RoleSecretary)
	target := boardMember(models.RoleNonExecutive)
	reg := registryFor(chair, exec, nonexec, sec, target)

	// Initiated by the chair; their vote was auto-recorded at proposal time.
	target.TerminationApprovals = models.UUIDArray{chair.ID}
	target.Status = models.StatusPendingTermination

	res, err := Approve(TerminationMotion(target), exec, reg)
	require.NoError(t, err)
	assert.False(t, res.Finalized)
	target.TerminationApprovals = res.Approvals

	res, err = Approve(TerminationMotion(target), sec, reg)
	require.NoError(t, err)
	assert.True(t, res.Finalized)
	assert.Equal(t, Tally{DirectorCount: 2, HasSecretary: true}, res.Tally)
}

func TestCanPropose(t *testing.T) {
	chair := boardMember(models.RoleChairperson)
	exec := boardMember(models.RoleExecutive)
	sec := boardMember(models.RoleSecretary)

	tests := []struct {
		name         string
		kind         MotionKind
		actor        *models.User
		actingOnSelf bool
		wantErr      error
	}{
		{"termination by chair", MotionTermination, chair, false, nil},
		{"termination by secretary", MotionTermination, sec, false, nil},
		{"termination by executive", MotionTermination, exec, false, ErrPermissionDenied},
		{"reset by secretary", MotionPasswordReset, sec, false, nil},
		{"reset by director", MotionPasswordReset, exec, false, ErrPermissionDenied},
		{"reset on self", MotionPasswordReset, sec, true, ErrSelfAction},
		{"deletion by secretary", MotionDocumentDeletion, sec, false, nil},
		{"deletion by chair", MotionDocumentDeletion, chair, false, ErrPermissionDenied},
		{"edit by anyone", MotionActionEdit, exec, false, nil},
		{"onboarding never proposed", MotionOnboarding, chair, false, ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanPropose(tt.kind, tt.actor, tt.actingOnSelf)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
