package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/api/dto"
	"github.com/thabo/boardwise/internal/api/handlers"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/directors"
	"github.com/thabo/boardwise/internal/testutil"
	"github.com/thabo/boardwise/pkg/crypto"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	t.Helper()
	ts := testutil.NewTestBoard(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)

	authService := auth.NewService(ts.DB, ts.JWTService)
	directorService := directors.NewService(ts.DB, testutil.NewTestLogger(), ts.Recorder, enc, crypto.NewSecretIssuer())
	handler := handlers.NewAuthHandler(authService, directorService)

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", handler.Register)
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/forgot-password", handler.ForgotPassword)

	return r, ts
}

func TestAuthHandler_Register(t *testing.T) {
	router, ts := setupAuthTestRouter(t)
	defer ts.Cleanup()

	t.Run("successful registration is pending approval", func(t *testing.T) {
		body := map[string]interface{}{
			"email":              "james@boardwise.co.za",
			"password":           "SecurePass1",
			"name":               "James Mwangi",
			"role":               "NON_EXECUTIVE",
			"certified_id":       true,
			"proof_of_residence": true,
			"cv":                 true,
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "PENDING_APPROVAL", resp.Status)
		assert.Empty(t, resp.ApprovedBy)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "weak@boardwise.co.za",
			"password": "short",
			"name":     "Weak Password",
			"role":     "NON_EXECUTIVE",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "james@boardwise.co.za",
			"password": "SecurePass1",
			"name":     "James Again",
			"role":     "NON_EXECUTIVE",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	router, ts := setupAuthTestRouter(t)
	defer ts.Cleanup()

	t.Run("active member logs in", func(t *testing.T) {
		body := map[string]string{
			"email":    ts.Chair.Email,
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "CHAIRPERSON", resp.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{
			"email":    ts.Chair.Email,
			"password": "wrong",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("pending registration cannot log in", func(t *testing.T) {
		pending := testutil.CreatePendingDirector(t, ts.DB, "Fatima Al-Sayed", true)

		body := map[string]string{
			"email":    pending.Email,
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	router, ts := setupAuthTestRouter(t)
	defer ts.Cleanup()

	t.Run("unknown address still succeeds", func(t *testing.T) {
		body := map[string]string{"email": "nobody@boardwise.co.za"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/forgot-password", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
