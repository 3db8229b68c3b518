package brackets

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

// makeTeams builds n teams with ids 1..n, each pairing players 10*i+1
// and 10*i+2.
func makeTeams(n int) []*models.Team {
	teams := make([]*models.Team, n)
	for i := 0; i < n; i++ {
		teams[i] = &models.Team{
			ID:          i + 1,
			Player1ID:   10*(i+1) + 1,
			Player2ID:   10*(i+1) + 2,
			DisplayName: string(rune('A' + i)),
		}
	}
	return teams
}

type stubRanking struct {
	points map[int]float64
}

func (s *stubRanking) RankingPoints(_ context.Context, playerID int) (float64, error) {
	if p, ok := s.points[playerID]; ok {
		return p, nil
	}
	return DefaultRankingPoints, nil
}

func TestCanonicalSeedOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, canonicalSeedOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, canonicalSeedOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, canonicalSeedOrder(8))
	assert.Equal(t, []int{1, 16, 8, 9, 4, 13, 5, 12, 2, 15, 7, 10, 3, 14, 6, 11}, canonicalSeedOrder(16))
}

func TestSeedTeamsManual(t *testing.T) {
	teams := makeTeams(4)
	three, one := 3, 1
	teams[0].Seed = &three
	teams[2].Seed = &one

	ordered, err := SeedTeams(context.Background(), teams, models.SeedingManual, nil, nil)
	require.NoError(t, err)

	// Pre-seeded teams first in seed order, unseeded after.
	assert.Equal(t, 3, ordered[0].ID)
	assert.Equal(t, 1, ordered[1].ID)
	assert.Equal(t, 2, ordered[2].ID)
	assert.Equal(t, 4, ordered[3].ID)

	for i, team := range ordered {
		require.NotNil(t, team.Seed)
		assert.Equal(t, i+1, *team.Seed)
	}
}

func TestSeedTeamsRankingBased(t *testing.T) {
	teams := makeTeams(3)
	ranking := &stubRanking{points: map[int]float64{
		// Team 1 averages 1100, team 2 averages 1500, team 3 stays at
		// the 1000 default.
		11: 1000, 12: 1200,
		21: 1400, 22: 1600,
	}}

	ordered, err := SeedTeams(context.Background(), teams, models.SeedingRankingBased, ranking, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, ordered[0].ID)
	assert.Equal(t, 1, ordered[1].ID)
	assert.Equal(t, 3, ordered[2].ID)
}

func TestSeedTeamsRankingBasedRequiresSource(t *testing.T) {
	_, err := SeedTeams(context.Background(), makeTeams(2), models.SeedingRankingBased, nil, nil)
	assert.Error(t, err)
}

func TestSeedTeamsRandomIsPermutation(t *testing.T) {
	teams := makeTeams(8)
	rng := rand.New(rand.NewSource(42))

	ordered, err := SeedTeams(context.Background(), teams, models.SeedingRandom, nil, rng)
	require.NoError(t, err)
	require.Len(t, ordered, 8)

	seen := make(map[int]bool, 8)
	for i, team := range ordered {
		assert.False(t, seen[team.ID], "team %d appears twice", team.ID)
		seen[team.ID] = true
		require.NotNil(t, team.Seed)
		assert.Equal(t, i+1, *team.Seed)
	}
}

func TestSeedTeamsDoesNotReorderInput(t *testing.T) {
	teams := makeTeams(4)
	rng := rand.New(rand.NewSource(7))

	_, err := SeedTeams(context.Background(), teams, models.SeedingRandom, nil, rng)
	require.NoError(t, err)

	for i, team := range teams {
		assert.Equal(t, i+1, team.ID)
	}
}

func TestSeedTeamsUnknownMethod(t *testing.T) {
	_, err := SeedTeams(context.Background(), makeTeams(2), models.SeedingMethod("BOGUS"), nil, nil)
	assert.Error(t, err)
}
