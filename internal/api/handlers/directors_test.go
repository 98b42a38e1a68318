package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/api/handlers"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/directors"
	"github.com/thabo/boardwise/internal/testutil"
	"github.com/thabo/boardwise/pkg/crypto"
)

func setupDirectorTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	t.Helper()
	ts := testutil.NewTestBoard(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)

	authService := auth.NewService(ts.DB, ts.JWTService)
	directorService := directors.NewService(ts.DB, testutil.NewTestLogger(), ts.Recorder, enc, crypto.NewSecretIssuer())
	handler := handlers.NewDirectorHandler(directorService)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(ts.JWTService))
		r.Use(middleware.LoadUser(authService))
		r.Get("/api/v1/directors", handler.List)
		r.Post("/api/v1/directors/{id}/approve", handler.ApproveOnboarding)
		r.Post("/api/v1/directors/{id}/freeze", handler.ToggleFreeze)
	})

	return r, ts
}

func TestDirectorHandler_ApproveOnboarding(t *testing.T) {
	router, ts := setupDirectorTestRouter(t)
	defer ts.Cleanup()

	pending := testutil.CreatePendingDirector(t, ts.DB, "Fatima Al-Sayed", true)
	path := "/api/v1/directors/" + pending.ID.String() + "/approve"

	t.Run("director vote counts", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.Chair)
		req := testutil.AuthenticatedRequest(t, "POST", path, nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Tally struct {
				DirectorCount int `json:"director_count"`
			} `json:"tally"`
			Finalized bool `json:"finalized"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, 1, resp.Tally.DirectorCount)
		assert.False(t, resp.Finalized)
	})

	t.Run("duplicate vote is a no-op success", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.Chair)
		req := testutil.AuthenticatedRequest(t, "POST", path, nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "already recorded")
	})

	t.Run("early secretary vote conflicts", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.Secretary)
		req := testutil.AuthenticatedRequest(t, "POST", path, nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDirectorHandler_ToggleFreeze(t *testing.T) {
	router, ts := setupDirectorTestRouter(t)
	defer ts.Cleanup()

	path := "/api/v1/directors/" + ts.NonExec.ID.String() + "/freeze"

	t.Run("secretary freezes a member", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.Secretary)
		req := testutil.AuthenticatedRequest(t, "POST", path, nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "FROZEN")
	})

	t.Run("frozen member is rejected at middleware", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.NonExec)
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/directors", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("directors cannot freeze", func(t *testing.T) {
		token := testutil.GenerateTestToken(t, ts.JWTService, ts.Chair)
		req := testutil.AuthenticatedRequest(t, "POST", path, nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
