package models

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	RoleChairperson  UserRole = "CHAIRPERSON"
	RoleExecutive    UserRole = "EXECUTIVE"
	RoleNonExecutive UserRole = "NON_EXECUTIVE"
	RoleSecretary    UserRole = "SECRETARY"
)

// IsDirector reports whether the role counts toward director quorums.
// Everyone except the secretary is a director.
func (r UserRole) IsDirector() bool {
	return r != RoleSecretary
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleChairperson, RoleExecutive, RoleNonExecutive, RoleSecretary:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusPendingApproval    UserStatus = "PENDING_APPROVAL"
	StatusActive             UserStatus = "ACTIVE"
	StatusFrozen             UserStatus = "FROZEN"
	StatusPendingTermination UserStatus = "PENDING_TERMINATION"
	StatusTerminated         UserStatus = "TERMINATED"
)

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Initials     string     `json:"initials"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Role         UserRole   `gorm:"not null" json:"role"`
	Status       UserStatus `gorm:"default:'PENDING_APPROVAL'" json:"status"`

	// Mandatory compliance documents; all three must be on file before a
	// single onboarding vote is accepted.
	CertifiedID      bool `json:"certified_id"`
	ProofOfResidence bool `json:"proof_of_residence"`
	CV               bool `json:"cv"`

	OnboardingApprovals  UUIDArray `gorm:"type:text" json:"onboarding_approvals"`
	TerminationApprovals UUIDArray `gorm:"type:text" json:"termination_approvals"`
	TerminationReason    string    `json:"termination_reason,omitempty"`

	// At most one open reset motion per user.
	PasswordReset *PasswordResetRequest `gorm:"foreignKey:UserID" json:"password_reset,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// HasComplianceDocs reports whether all mandatory onboarding documents are on file.
func (u *User) HasComplianceDocs() bool {
	return u.CertifiedID && u.ProofOfResidence && u.CV
}

// CanAuthenticate reports whether the account status permits a login.
func (u *User) CanAuthenticate() bool {
	return u.Status == StatusActive || u.Status == StatusPendingTermination
}

// PasswordResetRequest is a pending governance motion to restore access for a
// locked-out director. The temporary credential is sealed at proposal time and
// only revealed once a director approves.
type PasswordResetRequest struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	RequestedBy  uuid.UUID `gorm:"type:uuid" json:"requested_by"`
	Reason       string    `json:"reason"`
	Approvals    UUIDArray `gorm:"type:text" json:"approvals"`
	SealedSecret string    `json:"-"`
}

func (PasswordResetRequest) TableName() string {
	return "password_reset_requests"
}
