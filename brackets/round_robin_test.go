package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func TestRoundRobinEveryPairOnce(t *testing.T) {
	for _, n := range []int{2, 4, 5, 7, 8} {
		t.Run(fmt.Sprintf("%d_teams", n), func(t *testing.T) {
			spec, err := buildRoundRobin(makeTeams(n), models.BracketMain)
			require.NoError(t, err)

			wantMatches := n * (n - 1) / 2
			require.Len(t, spec.Nodes, wantMatches)

			pairs := make(map[[2]int]int)
			for _, node := range spec.Nodes {
				require.True(t, node.HasMatch)
				require.NotNil(t, node.Team1ID)
				require.NotNil(t, node.Team2ID)
				a, b := *node.Team1ID, *node.Team2ID
				require.NotEqual(t, a, b)
				if a > b {
					a, b = b, a
				}
				pairs[[2]int{a, b}]++
			}

			assert.Len(t, pairs, wantMatches)
			for pair, count := range pairs {
				assert.Equal(t, 1, count, "pair %v scheduled %d times", pair, count)
			}
		})
	}
}

func TestRoundRobinNoTeamTwicePerRound(t *testing.T) {
	spec, err := buildRoundRobin(makeTeams(7), models.BracketMain)
	require.NoError(t, err)

	// Seven teams pad to eight slots: seven rounds of three matches.
	perRound := make(map[int]map[int]bool)
	for _, node := range spec.Nodes {
		round := node.Key.Round
		if perRound[round] == nil {
			perRound[round] = make(map[int]bool)
		}
		for _, id := range []int{*node.Team1ID, *node.Team2ID} {
			assert.False(t, perRound[round][id], "team %d plays twice in round %d", id, round)
			perRound[round][id] = true
		}
	}
	require.Len(t, perRound, 7)
	for round, teams := range perRound {
		assert.Len(t, teams, 6, "round %d", round)
	}
}

func TestRoundRobinLabels(t *testing.T) {
	spec, err := buildRoundRobin(makeTeams(4), models.BracketMain)
	require.NoError(t, err)
	assert.Equal(t, "Round 1", spec.Nodes[0].RoundLabel)

	groupSpec, err := buildRoundRobin(makeTeams(4), models.GroupBracketType("B"))
	require.NoError(t, err)
	assert.Equal(t, "Group B - Round 1", groupSpec.Nodes[0].RoundLabel)
}

func TestRoundRobinNodesHaveNoLinks(t *testing.T) {
	spec, err := buildRoundRobin(makeTeams(4), models.BracketMain)
	require.NoError(t, err)
	for _, node := range spec.Nodes {
		assert.Nil(t, node.NextKey)
		assert.Nil(t, node.LoserNextKey)
	}
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	_, err := buildRoundRobin(makeTeams(1), models.BracketMain)
	assert.ErrorIs(t, err, ErrTooFewTeams)
}
