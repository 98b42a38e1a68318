package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/database/models"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	userID := uuid.New()
	email := "sec@boardwise.co.za"
	role := models.RoleSecretary

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, email, role)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		// Should be parseable
		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)
	})

	t.Run("token contains correct issuer", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "boardwise", claims.Issuer)
	})

	t.Run("token contains correct subject", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	userID := uuid.New()
	email := "chair@boardwise.co.za"
	role := models.RoleChairperson

	t.Run("validates correct token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		token, err := jwtService.GenerateToken(userID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond)

		token, err := jwtService.GenerateToken(userID, email, role)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
		otherService := auth.NewJWTService("other-secret", 24*time.Hour)

		token, err := otherService.GenerateToken(userID, email, role)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		_, err := jwtService.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("boardroom-pass-1")
	require.NoError(t, err)
	assert.NotEqual(t, "boardroom-pass-1", hash)

	assert.True(t, auth.CheckPassword("boardroom-pass-1", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
}
