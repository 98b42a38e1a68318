package voting

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database/models"
	"github.com/thabo/boardwise/internal/governance"
)

// Resolution is the motion currently on the floor of a live meeting.
type Resolution struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	TabledBy string    `json:"tabled_by"`
}

// session holds the floor state for one meeting. Votes are keyed by voter, so
// a revised vote replaces the earlier one. Roles are captured at cast time;
// mid-session roster edits do not reweigh recorded votes.
type session struct {
	resolution *Resolution
	votes      map[uuid.UUID]governance.VoteChoice
	roles      governance.Registry
}

// Sessions tracks in-flight resolution votes per meeting. State is memory
// only: nothing survives a restart, and closing a meeting discards its
// session after the final tally is read.
type Sessions struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*session
	recorder *audit.Recorder
}

func NewSessions(recorder *audit.Recorder) *Sessions {
	return &Sessions{
		byID:     make(map[uuid.UUID]*session),
		recorder: recorder,
	}
}

// TableResolution puts a resolution on the floor, replacing any prior one and
// discarding its votes. Chairperson or secretary only.
func (s *Sessions) TableResolution(ctx context.Context, actor *models.User, meetingID uuid.UUID, text string) (*Resolution, error) {
	if actor.Role != models.RoleChairperson && actor.Role != models.RoleSecretary {
		return nil, governance.ErrPermissionDenied
	}

	res := &Resolution{
		ID:       uuid.New(),
		Text:     text,
		TabledBy: actor.Name,
	}

	s.mu.Lock()
	s.byID[meetingID] = &session{
		resolution: res,
		votes:      make(map[uuid.UUID]governance.VoteChoice),
		roles:      make(governance.Registry),
	}
	s.mu.Unlock()

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionResolutionTabled,
		fmt.Sprintf("Tabled resolution: %s", text))

	return res, nil
}

// CastVote records or revises a director's vote on the floor resolution. The
// secretary has no vote; last cast wins; every cast is logged, revisions
// included.
func (s *Sessions) CastVote(ctx context.Context, actor *models.User, meetingID uuid.UUID, choice governance.VoteChoice) (governance.WeightedTally, error) {
	if actor.Role == models.RoleSecretary {
		return governance.WeightedTally{}, governance.ErrPermissionDenied
	}
	if !choice.Valid() {
		return governance.WeightedTally{}, fmt.Errorf("invalid vote choice %q", choice)
	}

	s.mu.Lock()
	sess, ok := s.byID[meetingID]
	if !ok || sess.resolution == nil {
		s.mu.Unlock()
		return governance.WeightedTally{}, governance.ErrNotFound
	}
	sess.votes[actor.ID] = choice
	sess.roles[actor.ID] = actor.Role
	tally := governance.CountWeighted(sess.votes, sess.roles)
	text := sess.resolution.Text
	s.mu.Unlock()

	s.recorder.Record(ctx, audit.ActorFromUser(actor), audit.ActionResolutionVote,
		fmt.Sprintf("Cast vote (%s) on resolution: %s", choice, text))

	return tally, nil
}

// Current returns the floor resolution and live weighted tally, or ErrNotFound
// if nothing is tabled.
func (s *Sessions) Current(meetingID uuid.UUID) (*Resolution, governance.WeightedTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[meetingID]
	if !ok || sess.resolution == nil {
		return nil, governance.WeightedTally{}, governance.ErrNotFound
	}
	return sess.resolution, governance.CountWeighted(sess.votes, sess.roles), nil
}

// Close discards the meeting's session and returns its final state, if any.
func (s *Sessions) Close(meetingID uuid.UUID) (*Resolution, governance.WeightedTally, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[meetingID]
	if !ok {
		return nil, governance.WeightedTally{}, false
	}
	delete(s.byID, meetingID)
	if sess.resolution == nil {
		return nil, governance.WeightedTally{}, false
	}
	return sess.resolution, governance.CountWeighted(sess.votes, sess.roles), true
}
