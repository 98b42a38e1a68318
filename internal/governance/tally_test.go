package governance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/thabo/boardwise/internal/database/models"
)

func testRegistry() (Registry, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"chair":     uuid.New(),
		"exec":      uuid.New(),
		"nonexec":   uuid.New(),
		"nonexec2":  uuid.New(),
		"secretary": uuid.New(),
	}
	return Registry{
		ids["chair"]:     models.RoleChairperson,
		ids["exec"]:      models.RoleExecutive,
		ids["nonexec"]:   models.RoleNonExecutive,
		ids["nonexec2"]:  models.RoleNonExecutive,
		ids["secretary"]: models.RoleSecretary,
	}, ids
}

func TestCount(t *testing.T) {
	reg, ids := testRegistry()

	tests := []struct {
		name   string
		voters []uuid.UUID
		want   Tally
	}{
		{"no votes", nil, Tally{}},
		{"single director", []uuid.UUID{ids["chair"]}, Tally{DirectorCount: 1}},
		{"two directors", []uuid.UUID{ids["chair"], ids["nonexec"]}, Tally{DirectorCount: 2}},
		{"secretary only", []uuid.UUID{ids["secretary"]}, Tally{HasSecretary: true}},
		{
			"full quorum",
			[]uuid.UUID{ids["chair"], ids["nonexec"], ids["secretary"]},
			Tally{DirectorCount: 2, HasSecretary: true},
		},
		{"unknown voter skipped", []uuid.UUID{uuid.New()}, Tally{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.voters, reg))
		})
	}
}

func TestCountWeighted(t *testing.T) {
	reg, ids := testRegistry()

	// One executive FOR (weight 2) against two non-executives AGAINST
	// (weight 1 each) is a dead heat.
	votes := map[uuid.UUID]VoteChoice{
		ids["exec"]:     VoteFor,
		ids["nonexec"]:  VoteAgainst,
		ids["nonexec2"]: VoteAgainst,
	}
	assert.Equal(t, WeightedTally{For: 2, Against: 2}, CountWeighted(votes, reg))
}

func TestCountWeighted_SecretaryCarriesNoWeight(t *testing.T) {
	reg, ids := testRegistry()

	votes := map[uuid.UUID]VoteChoice{
		ids["secretary"]: VoteFor,
		ids["chair"]:     VoteAbstain,
	}
	assert.Equal(t, WeightedTally{Abstain: 1}, CountWeighted(votes, reg))
}

func TestMaxWeightedScore(t *testing.T) {
	reg, _ := testRegistry()

	// chair 1 + exec 2 + two non-execs 1 each, secretary 0
	assert.Equal(t, 5, MaxWeightedScore(reg))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 2, Weight(models.RoleExecutive))
	assert.Equal(t, 1, Weight(models.RoleChairperson))
	assert.Equal(t, 1, Weight(models.RoleNonExecutive))
	assert.Equal(t, 0, Weight(models.RoleSecretary))
}
