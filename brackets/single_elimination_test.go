package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func nodesOf(spec *BracketSpec, bracketType models.BracketType, round int) []*NodeSpec {
	var out []*NodeSpec
	for _, n := range spec.Nodes {
		if n.Key.BracketType == bracketType && n.Key.Round == round {
			out = append(out, n)
		}
	}
	return out
}

func TestSingleEliminationTwoTeams(t *testing.T) {
	spec, err := buildEliminationBracket(makeTeams(2), models.BracketMain)
	require.NoError(t, err)
	require.Len(t, spec.Nodes, 1)

	final := spec.Nodes[0]
	assert.True(t, final.HasMatch)
	assert.Equal(t, "Final", final.RoundLabel)
	assert.Nil(t, final.NextKey)
	require.NotNil(t, final.Team1ID)
	require.NotNil(t, final.Team2ID)
	assert.Equal(t, 1, *final.Team1ID)
	assert.Equal(t, 2, *final.Team2ID)
}

func TestSingleEliminationFiveTeams(t *testing.T) {
	spec, err := buildEliminationBracket(makeTeams(5), models.BracketMain)
	require.NoError(t, err)

	// Five entrants round up to an eight slot bracket: 4+2+1 nodes.
	require.Len(t, spec.Nodes, 7)
	require.Len(t, nodesOf(spec, models.BracketMain, 1), 4)
	require.Len(t, nodesOf(spec, models.BracketMain, 2), 2)
	require.Len(t, nodesOf(spec, models.BracketMain, 3), 1)

	// Canonical order 1v8, 4v5, 2v7, 3v6: only seeds 4 and 5 meet in
	// round 1, the rest draw byes.
	round1 := nodesOf(spec, models.BracketMain, 1)
	assert.Nil(t, round1[0].Team1ID)
	require.NotNil(t, round1[0].ByeTeamID)
	assert.Equal(t, 1, *round1[0].ByeTeamID)

	assert.True(t, round1[1].HasMatch)
	require.NotNil(t, round1[1].Team1ID)
	require.NotNil(t, round1[1].Team2ID)
	assert.Equal(t, 4, *round1[1].Team1ID)
	assert.Equal(t, 5, *round1[1].Team2ID)

	require.NotNil(t, round1[2].ByeTeamID)
	assert.Equal(t, 2, *round1[2].ByeTeamID)
	require.NotNil(t, round1[3].ByeTeamID)
	assert.Equal(t, 3, *round1[3].ByeTeamID)

	// Bye winners are pre-filled into round 2. The top semi waits for
	// the 4v5 winner; the bottom semi pairs the two bye seeds directly.
	round2 := nodesOf(spec, models.BracketMain, 2)
	assert.True(t, round2[0].HasMatch)
	require.NotNil(t, round2[0].Team1ID)
	assert.Equal(t, 1, *round2[0].Team1ID)
	assert.Nil(t, round2[0].Team2ID)

	assert.True(t, round2[1].HasMatch)
	require.NotNil(t, round2[1].Team1ID)
	require.NotNil(t, round2[1].Team2ID)
	assert.Equal(t, 2, *round2[1].Team1ID)
	assert.Equal(t, 3, *round2[1].Team2ID)

	final := nodesOf(spec, models.BracketMain, 3)[0]
	assert.False(t, final.HasMatch)
	assert.Nil(t, final.NextKey)
}

func TestSingleEliminationLinks(t *testing.T) {
	spec, err := buildEliminationBracket(makeTeams(8), models.BracketMain)
	require.NoError(t, err)
	require.Len(t, spec.Nodes, 7)

	for _, node := range spec.Nodes {
		if node.Key.Round == 3 {
			assert.Nil(t, node.NextKey)
			continue
		}
		require.NotNil(t, node.NextKey, "node %s must link onward", node.Key)
		assert.Equal(t, node.Key.Round+1, node.NextKey.Round)
		assert.Equal(t, node.Key.Position/2, node.NextKey.Position)
		assert.Equal(t, models.BracketMain, node.NextKey.BracketType)
	}
}

func TestSingleEliminationLabels(t *testing.T) {
	spec, err := buildEliminationBracket(makeTeams(16), models.BracketMain)
	require.NoError(t, err)

	assert.Equal(t, "Round of 16", nodesOf(spec, models.BracketMain, 1)[0].RoundLabel)
	assert.Equal(t, "Quarter-Final", nodesOf(spec, models.BracketMain, 2)[0].RoundLabel)
	assert.Equal(t, "Semi-Final", nodesOf(spec, models.BracketMain, 3)[0].RoundLabel)
	assert.Equal(t, "Final", nodesOf(spec, models.BracketMain, 4)[0].RoundLabel)
}

func TestSingleEliminationFullDrawPairings(t *testing.T) {
	spec, err := buildEliminationBracket(makeTeams(8), models.BracketMain)
	require.NoError(t, err)

	round1 := nodesOf(spec, models.BracketMain, 1)
	wantPairs := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
	for i, node := range round1 {
		assert.True(t, node.HasMatch)
		require.NotNil(t, node.Team1ID)
		require.NotNil(t, node.Team2ID)
		assert.Equal(t, wantPairs[i][0], *node.Team1ID)
		assert.Equal(t, wantPairs[i][1], *node.Team2ID)
	}
}

func TestSingleEliminationTooFewTeams(t *testing.T) {
	_, err := buildEliminationBracket(makeTeams(1), models.BracketMain)
	assert.ErrorIs(t, err, ErrTooFewTeams)

	gen := NewSingleEliminationGenerator()
	_, err = gen.GenerateBracket(context.Background(), GenerateParams{
		Tournament: &models.Tournament{Format: models.FormatSingleElimination},
		Teams:      makeTeams(0),
	})
	assert.ErrorIs(t, err, ErrTooFewTeams)
}

func TestEliminationRounds(t *testing.T) {
	assert.Equal(t, 1, eliminationRounds(2))
	assert.Equal(t, 2, eliminationRounds(3))
	assert.Equal(t, 2, eliminationRounds(4))
	assert.Equal(t, 3, eliminationRounds(5))
	assert.Equal(t, 3, eliminationRounds(8))
	assert.Equal(t, 4, eliminationRounds(9))
	assert.Equal(t, 4, eliminationRounds(16))
}
