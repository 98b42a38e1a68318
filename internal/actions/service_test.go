package actions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/testutil"
)

func newService(ts *testutil.TestSetup) *actions.Service {
	return actions.NewService(ts.DB, testutil.NewTestLogger(), ts.Recorder)
}

func TestCreateAndList(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	svc := newService(ts)
	ctx := testutil.TestContext(t)

	item, err := svc.Create(ctx, ts.Chair, actions.CreateInput{
		Task:     "Finalize Q3 budget review",
		Owner:    "Sarah Van Der Merwe",
		Deadline: time.Now().Add(14 * 24 * time.Hour),
		Source:   "Board Meeting",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActionStatusPending, item.Status)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEditMotion(t *testing.T) {
	t.Run("requester excluded, peer approval applies payload", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		item := testutil.CreateTestAction(t, ts.DB, "Draft ESG policy", "Sipho Nkosi")

		done := models.ActionStatusCompleted
		newTask := "Draft and circulate ESG policy"
		_, err := svc.RequestEdit(ctx, ts.NonExec, item.ID, actions.EditInput{
			NewStatus: &done,
			NewTask:   &newTask,
		})
		require.NoError(t, err)

		// Requester approving their own edit is a conflict of interest.
		_, err = svc.ApproveEdit(ctx, ts.NonExec, item.ID)
		assert.ErrorIs(t, err, governance.ErrConflictOfInterest)

		updated, err := svc.ApproveEdit(ctx, ts.Executive, item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ActionStatusCompleted, updated.Status)
		assert.Equal(t, "Draft and circulate ESG policy", updated.Task)
		assert.Equal(t, "Manual update approved by Sarah Van Der Merwe", updated.LastUpdate)

		// Motion cleared after finalize.
		reloaded, err := svc.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.Edit)
	})

	t.Run("nil fields leave values unchanged", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		item := testutil.CreateTestAction(t, ts.DB, "Draft ESG policy", "Sipho Nkosi")

		newOwner := "Sarah Van Der Merwe"
		_, err := svc.RequestEdit(ctx, ts.Chair, item.ID, actions.EditInput{NewOwner: &newOwner})
		require.NoError(t, err)

		updated, err := svc.ApproveEdit(ctx, ts.Secretary, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sarah Van Der Merwe", updated.Owner)
		assert.Equal(t, "Draft ESG policy", updated.Task)
		assert.Equal(t, models.ActionStatusPending, updated.Status)
	})

	t.Run("one open motion per action", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		item := testutil.CreateTestAction(t, ts.DB, "Draft ESG policy", "Sipho Nkosi")

		newOwner := "Sarah Van Der Merwe"
		_, err := svc.RequestEdit(ctx, ts.Chair, item.ID, actions.EditInput{NewOwner: &newOwner})
		require.NoError(t, err)

		_, err = svc.RequestEdit(ctx, ts.Executive, item.ID, actions.EditInput{NewOwner: &newOwner})
		assert.ErrorIs(t, err, actions.ErrEditOpen)
	})
}

func TestRecordInboundUpdate(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	svc := newService(ts)
	ctx := testutil.TestContext(t)

	t.Run("completion keywords close the item", func(t *testing.T) {
		item := testutil.CreateTestAction(t, ts.DB, "Submit CIPC filings", "Priya Patel")

		updated, err := svc.RecordInboundUpdate(ctx, item.ID, "WhatsApp", "All done, filings submitted yesterday")
		require.NoError(t, err)
		assert.Equal(t, models.ActionStatusCompleted, updated.Status)
		assert.Contains(t, updated.LastUpdate, "WhatsApp")
	})

	t.Run("progress messages mark in progress", func(t *testing.T) {
		item := testutil.CreateTestAction(t, ts.DB, "Review insurance cover", "Sipho Nkosi")

		updated, err := svc.RecordInboundUpdate(ctx, item.ID, "Email", "Still waiting on the broker quotes")
		require.NoError(t, err)
		assert.Equal(t, models.ActionStatusInProgress, updated.Status)
	})
}

func TestMarkOverdue(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	svc := newService(ts)
	ctx := testutil.TestContext(t)

	past := testutil.CreateTestAction(t, ts.DB, "Old task", "Sipho Nkosi")
	require.NoError(t, ts.DB.Model(past).Update("deadline", time.Now().Add(-48*time.Hour)).Error)

	closed := testutil.CreateTestAction(t, ts.DB, "Closed task", "Sipho Nkosi")
	require.NoError(t, ts.DB.Model(closed).Updates(map[string]interface{}{
		"deadline": time.Now().Add(-48 * time.Hour),
		"status":   models.ActionStatusCompleted,
	}).Error)

	testutil.CreateTestAction(t, ts.DB, "Future task", "Sipho Nkosi")

	n, err := svc.MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := svc.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionStatusOverdue, reloaded.Status)

	// Completed items are never flagged.
	reloaded, err = svc.Get(ctx, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionStatusCompleted, reloaded.Status)
}
