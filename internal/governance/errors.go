package governance

import "errors"

// Business-rule failures. All are recoverable and leave state untouched; the
// API layer owns the user-facing wording.
var (
	// ErrPermissionDenied means the actor's role cannot perform the operation.
	ErrPermissionDenied = errors.New("role not permitted for this operation")

	// ErrSelfAction means the actor tried a governed action on their own account
	// where self-service is disallowed or redirected.
	ErrSelfAction = errors.New("action not permitted on own account")

	// ErrConflictOfInterest means the motion's requester tried to approve it.
	ErrConflictOfInterest = errors.New("requester cannot approve their own motion")

	// ErrDuplicateVote means the voter already appears in the approval set.
	// Callers treat it as an idempotent no-op, never as a user-facing failure.
	ErrDuplicateVote = errors.New("vote already recorded")

	// ErrProtocolViolation means the secretary voted before two directors had.
	ErrProtocolViolation = errors.New("secretary sign-off requires two prior director approvals")

	// ErrInsufficientAuthority means the actor's role cannot satisfy the
	// motion's current approval stage.
	ErrInsufficientAuthority = errors.New("role cannot satisfy the current approval stage")

	// ErrDocumentsMissing means mandatory compliance documents are not on file.
	ErrDocumentsMissing = errors.New("mandatory compliance documents missing")

	// ErrNotFound means the target entity or its pending motion does not exist.
	ErrNotFound = errors.New("target or pending motion not found")
)
