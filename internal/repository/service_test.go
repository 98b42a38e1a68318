package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/repository"
	"github.com/thabo/boardwise/internal/testutil"
)

func newService(ts *testutil.TestSetup) *repository.Service {
	return repository.NewService(ts.DB, testutil.NewTestLogger(), ts.Recorder)
}

func TestUpload(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	svc := newService(ts)
	ctx := testutil.TestContext(t)

	t.Run("records metadata entry", func(t *testing.T) {
		doc, err := svc.Upload(ctx, ts.Secretary, repository.UploadInput{
			Title:     "Q3 Board Pack",
			Type:      models.DocumentTypePack,
			SizeLabel: "4.1 MB",
		})
		require.NoError(t, err)
		assert.Equal(t, "Priya Patel", doc.UploadedBy)
		assert.False(t, doc.Date.IsZero())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := svc.Upload(ctx, ts.Secretary, repository.UploadInput{
			Title: "Mystery file",
			Type:  models.DocumentType("SPREADSHEET"),
		})
		assert.ErrorIs(t, err, repository.ErrBadType)
	})
}

func TestDeletionMotion(t *testing.T) {
	t.Run("secretary requests, peer approval removes entry", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		doc := testutil.CreateTestDocument(t, ts.DB, "Outdated Travel Policy", models.DocumentTypePolicy)

		_, err := svc.RequestDeletion(ctx, ts.Secretary, doc.ID)
		require.NoError(t, err)

		finalized, err := svc.ApproveDeletion(ctx, ts.Chair, doc.ID)
		require.NoError(t, err)
		assert.True(t, finalized)

		_, err = svc.Get(ctx, doc.ID)
		assert.ErrorIs(t, err, governance.ErrNotFound)
	})

	t.Run("only secretary may request", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		doc := testutil.CreateTestDocument(t, ts.DB, "Outdated Travel Policy", models.DocumentTypePolicy)

		_, err := svc.RequestDeletion(ctx, ts.Chair, doc.ID)
		assert.ErrorIs(t, err, governance.ErrPermissionDenied)
	})

	t.Run("requester cannot approve their own motion", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		doc := testutil.CreateTestDocument(t, ts.DB, "Outdated Travel Policy", models.DocumentTypePolicy)

		_, err := svc.RequestDeletion(ctx, ts.Secretary, doc.ID)
		require.NoError(t, err)

		_, err = svc.ApproveDeletion(ctx, ts.Secretary, doc.ID)
		assert.ErrorIs(t, err, governance.ErrConflictOfInterest)

		// Entry survives the rejected vote.
		_, err = svc.Get(ctx, doc.ID)
		require.NoError(t, err)
	})

	t.Run("one open motion per document", func(t *testing.T) {
		ts := testutil.NewTestBoard(t)
		defer ts.Cleanup()
		svc := newService(ts)
		ctx := testutil.TestContext(t)

		doc := testutil.CreateTestDocument(t, ts.DB, "Outdated Travel Policy", models.DocumentTypePolicy)

		_, err := svc.RequestDeletion(ctx, ts.Secretary, doc.ID)
		require.NoError(t, err)
		_, err = svc.RequestDeletion(ctx, ts.Secretary, doc.ID)
		assert.ErrorIs(t, err, repository.ErrDeletionOpen)
	})
}
