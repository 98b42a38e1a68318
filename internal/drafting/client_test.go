package drafting_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/drafting"
	"github.com/thabo/boardwise/internal/testutil"
	"github.com/thabo/boardwise/pkg/config"
)

func TestFallbacks(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("unconfigured client returns canned strategy", func(t *testing.T) {
		client := drafting.NewClient(config.DraftingConfig{TimeoutSeconds: 1}, testutil.NewTestLogger())

		plan := client.PlanStrategy(ctx, "Q3 Board Meeting", nil)
		require.NotNil(t, plan)
		assert.NotEmpty(t, plan.SuggestedAgenda)
		assert.NotEmpty(t, plan.ActionAudit)
	})

	t.Run("unreachable collaborator returns canned minutes", func(t *testing.T) {
		client := drafting.NewClient(config.DraftingConfig{
			URL:            "http://127.0.0.1:1",
			TimeoutSeconds: 1,
		}, testutil.NewTestLogger())

		draft := client.GenerateMinutes(ctx, "Q3 Board Meeting", "Approve FY26 budget", "FOR 4 / AGAINST 1")
		require.NotNil(t, draft)
		assert.Contains(t, draft.Summary, "Q3 Board Meeting")
		assert.NotEmpty(t, draft.Resolutions)
	})

	t.Run("server error returns canned compliance review", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := drafting.NewClient(config.DraftingConfig{
			URL:            srv.URL,
			TimeoutSeconds: 1,
		}, testutil.NewTestLogger())

		review := client.CheckCompliance(ctx, []string{"Welcome"})
		require.NotNil(t, review)
		assert.Greater(t, review.Score, 0)
	})
}

func TestLiveCollaborator(t *testing.T) {
	ctx := testutil.TestContext(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/strategy":
			w.Write([]byte(`{"suggested_agenda":["Opening"],"action_audit":"All clear."}`))
		case "/v1/minutes":
			w.Write([]byte(`{"summary":"Short meeting.","resolutions":["Noted."],"actions":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := drafting.NewClient(config.DraftingConfig{
		URL:            srv.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}, testutil.NewTestLogger())

	plan := client.PlanStrategy(ctx, "AGM", nil)
	assert.Equal(t, []string{"Opening"}, plan.SuggestedAgenda)

	draft := client.GenerateMinutes(ctx, "AGM", "", "")
	assert.Equal(t, "Short meeting.", draft.Summary)
}
