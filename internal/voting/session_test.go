package voting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
	"github.com/thabo/boardwise/internal/testutil"
	"github.com/thabo/boardwise/internal/voting"
)

func TestTableResolution(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	sessions := voting.NewSessions(ts.Recorder)
	ctx := testutil.TestContext(t)
	meeting := testutil.CreateTestMeeting(t, ts.DB, "Q3 Board Meeting", models.MeetingStatusLive)

	t.Run("chair tables a resolution", func(t *testing.T) {
		res, err := sessions.TableResolution(ctx, ts.Chair, meeting.ID, "Approve the FY26 budget")
		require.NoError(t, err)
		assert.Equal(t, "Thabo Mbeki", res.TabledBy)
	})

	t.Run("directors without the gavel cannot table", func(t *testing.T) {
		_, err := sessions.TableResolution(ctx, ts.Executive, meeting.ID, "whatever")
		assert.ErrorIs(t, err, governance.ErrPermissionDenied)
	})

	t.Run("new resolution replaces floor state", func(t *testing.T) {
		_, err := sessions.CastVote(ctx, ts.Chair, meeting.ID, governance.VoteFor)
		require.NoError(t, err)

		_, err = sessions.TableResolution(ctx, ts.Secretary, meeting.ID, "Adopt revised dividend policy")
		require.NoError(t, err)

		_, tally, err := sessions.Current(meeting.ID)
		require.NoError(t, err)
		assert.Equal(t, governance.WeightedTally{}, tally)
	})
}

func TestCastVote(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	sessions := voting.NewSessions(ts.Recorder)
	ctx := testutil.TestContext(t)
	meeting := testutil.CreateTestMeeting(t, ts.DB, "Q3 Board Meeting", models.MeetingStatusLive)

	_, err := sessions.TableResolution(ctx, ts.Chair, meeting.ID, "Approve the FY26 budget")
	require.NoError(t, err)

	t.Run("executives carry double weight", func(t *testing.T) {
		tally, err := sessions.CastVote(ctx, ts.Executive, meeting.ID, governance.VoteFor)
		require.NoError(t, err)
		assert.Equal(t, governance.WeightedTally{For: 2}, tally)
	})

	t.Run("last vote wins", func(t *testing.T) {
		tally, err := sessions.CastVote(ctx, ts.NonExec, meeting.ID, governance.VoteFor)
		require.NoError(t, err)
		assert.Equal(t, governance.WeightedTally{For: 3}, tally)

		tally, err = sessions.CastVote(ctx, ts.NonExec, meeting.ID, governance.VoteAgainst)
		require.NoError(t, err)
		assert.Equal(t, governance.WeightedTally{For: 2, Against: 1}, tally)
	})

	t.Run("secretary cannot vote", func(t *testing.T) {
		_, err := sessions.CastVote(ctx, ts.Secretary, meeting.ID, governance.VoteFor)
		assert.ErrorIs(t, err, governance.ErrPermissionDenied)
	})

	t.Run("revisions are audit logged", func(t *testing.T) {
		var count int64
		ts.DB.Model(&models.AuditLogEntry{}).Where("action = ?", "RESOLUTION_VOTE").Count(&count)
		assert.EqualValues(t, 3, count)
	})

	t.Run("no floor state means no vote", func(t *testing.T) {
		other := testutil.CreateTestMeeting(t, ts.DB, "Strategy Offsite", models.MeetingStatusLive)
		_, err := sessions.CastVote(ctx, ts.Chair, other.ID, governance.VoteFor)
		assert.ErrorIs(t, err, governance.ErrNotFound)
	})
}

func TestClose(t *testing.T) {
	ts := testutil.NewTestBoard(t)
	defer ts.Cleanup()
	sessions := voting.NewSessions(ts.Recorder)
	ctx := testutil.TestContext(t)
	meeting := testutil.CreateTestMeeting(t, ts.DB, "Q3 Board Meeting", models.MeetingStatusLive)

	_, err := sessions.TableResolution(ctx, ts.Chair, meeting.ID, "Approve the FY26 budget")
	require.NoError(t, err)
	_, err = sessions.CastVote(ctx, ts.Chair, meeting.ID, governance.VoteFor)
	require.NoError(t, err)

	res, tally, ok := sessions.Close(meeting.ID)
	require.True(t, ok)
	assert.Equal(t, "Approve the FY26 budget", res.Text)
	assert.Equal(t, governance.WeightedTally{For: 1}, tally)

	// Session is gone after close.
	_, _, err = sessions.Current(meeting.ID)
	assert.ErrorIs(t, err, governance.ErrNotFound)

	_, _, ok = sessions.Close(meeting.ID)
	assert.False(t, ok)
}
