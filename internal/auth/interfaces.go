package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/database/models"
)

// Authenticator defines the interface for board-member authentication.
type Authenticator interface {
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID uuid.UUID, email string, role models.UserRole) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
