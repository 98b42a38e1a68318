package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/pkg/crypto"
	"gorm.io/gorm"
)

// Action codes for audit log entries.
const (
	ActionUserLogin  = "USER_LOGIN"
	ActionUserLogout = "USER_LOGOUT"

	ActionProfileCreate = "PROFILE_CREATE"
	ActionProfileUpdate = "PROFILE_UPDATE"

	ActionUserApprovalVote  = "USER_APPROVAL_VOTE"
	ActionUserApprovalFinal = "USER_APPROVAL_FINAL"

	ActionTerminationInit  = "TERMINATION_INIT"
	ActionTerminationVote  = "USER_TERMINATION_VOTE"
	ActionTerminationFinal = "USER_TERMINATION_FINAL"

	ActionUserFreeze   = "USER_FREEZE"
	ActionUserUnfreeze = "USER_UNFREEZE"

	ActionPwdResetRequest = "PWD_RESET_REQ"
	ActionPwdChangeInit   = "PWD_CHANGE_INIT"
	ActionPwdChangeVote   = "PWD_CHANGE_VOTE"
	ActionPwdChangeFinal  = "PWD_CHANGE_FINAL"

	ActionDocUpload        = "DOC_UPLOAD"
	ActionDocDeleteRequest = "DOC_DELETE_REQ"
	ActionDocDeleteVote    = "DOC_DELETE_VOTE"
	ActionDocDeleteFinal   = "DOC_DELETE_FINAL"

	ActionItemCreate      = "ACTION_CREATE"
	ActionItemEditRequest = "ACTION_EDIT_REQ"
	ActionItemEditVote    = "ACTION_EDIT_VOTE"
	ActionItemEditFinal   = "ACTION_EDIT_FINAL"
	ActionItemUpdate      = "ACTION_UPDATE"

	ActionMeetingSchedule   = "MEETING_SCHEDULE"
	ActionMeetingUpdate     = "MEETING_UPDATE"
	ActionMeetingAttendance = "MEETING_ATTENDANCE"
	ActionMeetingClosed     = "MEETING_CLOSED"

	ActionComplianceDeclaration = "COMPLIANCE_DECLARATION"
	ActionResolutionTabled      = "RESOLUTION_TABLED"
	ActionResolutionVote        = "RESOLUTION_VOTE"
	ActionDocsGenerated         = "DOCS_GENERATED"
	ActionSystem                = "SYSTEM_ACTION"
)

// Actor identifies who performed a governed transition. The name is denormalized
// into the entry so the log stays readable after the roster changes.
type Actor struct {
	ID   uuid.UUID
	Name string
}

func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Name: u.Name}
}

// Recorder appends to the audit log. Record never fails its caller: a write
// error is logged and swallowed, because governance transitions must not roll
// back on observer failure.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
	issuer crypto.SecretIssuer
}

func NewRecorder(db *gorm.DB, logger *slog.Logger, issuer crypto.SecretIssuer) *Recorder {
	return &Recorder{db: db, logger: logger, issuer: issuer}
}

func (r *Recorder) Record(ctx context.Context, actor Actor, action, details string) {
	ref, err := r.issuer.ReferenceToken()
	if err != nil {
		r.logger.Error("audit reference token", "error", err)
	}

	entry := models.AuditLogEntry{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Details:   details,
		RefHash:   ref,
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.logger.Error("audit append failed",
			"action", action,
			"actor_id", actor.ID,
			"error", err,
		)
	}
}

// List returns entries visible to the caller: the secretary sees the whole
// ordered sequence, everyone else only their own entries. The filter is a
// view-time concern; storage stays unpartitioned.
func (r *Recorder) List(ctx context.Context, caller *models.User) ([]models.AuditLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogEntry{})
	if caller.Role != models.RoleSecretary {
		query = query.Where("actor_id = ?", caller.ID)
	}

	var entries []models.AuditLogEntry
	if err := query.Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
