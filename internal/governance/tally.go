package governance

import (
	"github.com/google/uuid"
	"github.com/thabo/boardwise/internal/database/models"
)

// Registry is a snapshot of user ids to roles, the only piece of the roster
// the tally functions need. Everything in this file is a pure function of its
// arguments.
type Registry map[uuid.UUID]models.UserRole

func RegistryFromUsers(users []models.User) Registry {
	reg := make(Registry, len(users))
	for _, u := range users {
		reg[u.ID] = u.Role
	}
	return reg
}

// Tally is the unweighted approval count backing onboarding and termination
// quorums.
type Tally struct {
	DirectorCount int  `json:"director_count"`
	HasSecretary  bool `json:"has_secretary"`
}

// Count tallies the recorded approvals. Voters missing from the registry are
// skipped rather than guessed at.
func Count(voters []uuid.UUID, reg Registry) Tally {
	var t Tally
	for _, id := range voters {
		role, ok := reg[id]
		if !ok {
			continue
		}
		if role.IsDirector() {
			t.DirectorCount++
		} else {
			t.HasSecretary = true
		}
	}
	return t
}

type VoteChoice string

const (
	VoteFor     VoteChoice = "FOR"
	VoteAgainst VoteChoice = "AGAINST"
	VoteAbstain VoteChoice = "ABSTAIN"
)

func (c VoteChoice) Valid() bool {
	switch c {
	case VoteFor, VoteAgainst, VoteAbstain:
		return true
	}
	return false
}

// Weight returns a voter's weight in meeting resolutions: executives carry a
// double vote, the secretary none at all.
func Weight(role models.UserRole) int {
	switch {
	case role == models.RoleSecretary:
		return 0
	case role == models.RoleExecutive:
		return 2
	default:
		return 1
	}
}

// WeightedTally is the live score of a meeting resolution.
type WeightedTally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

// CountWeighted computes the weighted resolution tally. Secretary votes carry
// zero weight, so even a stray entry cannot move the score.
func CountWeighted(votes map[uuid.UUID]VoteChoice, reg Registry) WeightedTally {
	var t WeightedTally
	for id, choice := range votes {
		role, ok := reg[id]
		if !ok {
			continue
		}
		w := Weight(role)
		switch choice {
		case VoteFor:
			t.For += w
		case VoteAgainst:
			t.Against += w
		case VoteAbstain:
			t.Abstain += w
		}
	}
	return t
}

// MaxWeightedScore is the score if every eligible voter voted the same way.
// Display-only; it plays no part in any quorum.
func MaxWeightedScore(reg Registry) int {
	total := 0
	for _, role := range reg {
		total += Weight(role)
	}
	return total
}
