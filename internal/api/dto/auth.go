package dto

import (
	"github.com/thabo/boardwise/internal/api/validation"
	"github.com/thabo/boardwise/internal/database/models"
)

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	CertifiedID      bool   `json:"certified_id"`
	ProofOfResidence bool   `json:"proof_of_residence"`
	CV               bool   `json:"cv"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if !models.UserRole(r.Role).Valid() {
		errors["role"] = "Invalid board role"
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Initials         string   `json:"initials"`
	AvatarURL        string   `json:"avatar_url,omitempty"`
	Role             string   `json:"role"`
	Status           string   `json:"status"`
	CertifiedID      bool     `json:"certified_id"`
	ProofOfResidence bool     `json:"proof_of_residence"`
	CV               bool     `json:"cv"`
	ApprovedBy       []string `json:"approved_by,omitempty"`
}

func UserToDTO(u *models.User) UserDTO {
	approvals := make([]string, len(u.OnboardingApprovals))
	for i, id := range u.OnboardingApprovals {
		approvals[i] = id.String()
	}

	return UserDTO{
		ID:               u.ID.String(),
		Email:            u.Email,
		Name:             u.Name,
		Initials:         u.Initials,
		AvatarURL:        u.AvatarURL,
		Role:             string(u.Role),
		Status:           string(u.Status),
		CertifiedID:      u.CertifiedID,
		ProofOfResidence: u.ProofOfResidence,
		CV:               u.CV,
		ApprovedBy:       approvals,
	}
}
