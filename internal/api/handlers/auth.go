package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/directors"
)

type AuthHandler struct {
	authService *auth.Service
	directors   *directors.Service
}

func NewAuthHandler(authService *auth.Service, directorsService *directors.Service) *AuthHandler {
	return &AuthHandler{authService: authService, directors: directorsService}
}

// Register handles POST /api/v1/auth/register. The new account sits in
// PENDING_APPROVAL until the board votes it in; no token is issued yet.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	user, err := h.directors.Register(r.Context(), directors.RegisterInput{
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Password:         req.Password,
		Role:             models.UserRole(req.Role),
		AvatarURL:        req.AvatarURL,
		CertifiedID:      req.CertifiedID,
		ProofOfResidence: req.ProofOfResidence,
		CV:               req.CV,
	})
	if err != nil {
		if errors.Is(err, directors.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Email already registered"})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserToDTO(user))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid email or password"})
		case errors.Is(err, auth.ErrPendingApproval):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Registration awaiting board approval"})
		case errors.Is(err, auth.ErrAccountFrozen):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account frozen; contact the company secretary"})
		case errors.Is(err, auth.ErrAccountTerminated):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account archived and access revoked"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: resp.Token,
		User:  dto.UserToDTO(resp.User),
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; this only
// clears the cookie variant.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. Always succeeds
// so the endpoint cannot enumerate accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	h.directors.ForgotPassword(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	writeJSON(w, http.StatusOK, dto.SuccessResponse{
		Message: "If the address is registered, the secretary has been notified",
	})
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}
