package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func TestAssignGroupsSnakeSeeding(t *testing.T) {
	groups, err := AssignGroups(makeTeams(8), 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Snake over two lanes: 1,4,5,8 -> A and 2,3,6,7 -> B.
	idsOf := func(group []*models.Team) []int {
		ids := make([]int, len(group))
		for i, team := range group {
			ids[i] = team.ID
		}
		return ids
	}
	assert.Equal(t, []int{1, 4, 5, 8}, idsOf(groups[0]))
	assert.Equal(t, []int{2, 3, 6, 7}, idsOf(groups[1]))
}

func TestAssignGroupsManualLabels(t *testing.T) {
	teams := makeTeams(5)
	b := "B"
	teams[0].GroupLabel = &b
	teams[3].GroupLabel = &b

	groups, err := AssignGroups(teams, 2)
	require.NoError(t, err)

	// Labeled teams keep their group; the rest fill the smallest one.
	assert.Len(t, groups[1], 2)
	assert.Equal(t, 1, groups[1][0].ID)
	assert.Equal(t, 4, groups[1][1].ID)
	assert.Len(t, groups[0], 3)
}

func TestAssignGroupsValidation(t *testing.T) {
	_, err := AssignGroups(makeTeams(4), 1)
	assert.ErrorIs(t, err, ErrInvalidGroupCount)

	_, err = AssignGroups(makeTeams(3), 2)
	assert.ErrorIs(t, err, ErrTooFewTeams)

	teams := makeTeams(4)
	z := "Z"
	teams[0].GroupLabel = &z
	_, err = AssignGroups(teams, 2)
	assert.ErrorIs(t, err, ErrInvalidGroupLabel)
}

func TestGroupStageGeneratorLayout(t *testing.T) {
	gen := NewGroupStageGenerator()
	spec, err := gen.GenerateBracket(context.Background(), GenerateParams{
		Tournament: &models.Tournament{Format: models.FormatGroupKnockout, NumberOfGroups: 2},
		Teams:      makeTeams(8),
	})
	require.NoError(t, err)

	// Two groups of four: six round robin matches each.
	groupA := 0
	groupB := 0
	for _, node := range spec.Nodes {
		require.True(t, node.HasMatch)
		switch node.Key.BracketType {
		case models.GroupBracketType("A"):
			groupA++
		case models.GroupBracketType("B"):
			groupB++
		default:
			t.Fatalf("unexpected bracket type %s", node.Key.BracketType)
		}
	}
	assert.Equal(t, 6, groupA)
	assert.Equal(t, 6, groupB)
}

func groupMatch(group string, round, pos, team1, team2, winner int, games []models.GameScore) *models.BracketMatch {
	score := models.DetailedScore{Games: games}
	for _, g := range games {
		if g.Team1 > g.Team2 {
			score.Team1GamesWon++
		} else {
			score.Team2GamesWon++
		}
	}
	return &models.BracketMatch{
		Match: models.Match{
			Team1ID:  &team1,
			Team2ID:  &team2,
			Status:   models.MatchStatusCompleted,
			WinnerID: &winner,
			Score:    score,
		},
		BracketType: models.GroupBracketType(group),
		Round:       round,
		Position:    pos,
	}
}

func TestComputeGroupStandings(t *testing.T) {
	win := []models.GameScore{{Team1: 21, Team2: 15}, {Team1: 21, Team2: 18}}

	matches := []*models.BracketMatch{
		// Team 1 beats 2 and 3; team 2 beats 3.
		groupMatch("A", 1, 0, 1, 2, 1, win),
		groupMatch("A", 2, 0, 1, 3, 1, win),
		groupMatch("A", 3, 0, 2, 3, 2, win),
		// Group B: team 4 beats 5, the 4v6 match still pending.
		groupMatch("B", 1, 0, 4, 5, 4, win),
		{
			Match:       models.Match{Team1ID: intPtr(4), Team2ID: intPtr(6), Status: models.MatchStatusUpcoming},
			BracketType: models.GroupBracketType("B"),
			Round:       2,
		},
	}

	standings := ComputeGroupStandings(matches)
	require.Len(t, standings, 2)

	tableA := standings["A"]
	require.Len(t, tableA, 3)
	assert.Equal(t, 1, tableA[0].TeamID)
	assert.Equal(t, 1, tableA[0].Rank)
	assert.Equal(t, 2, tableA[0].Wins)
	assert.Equal(t, 2, tableA[0].Played)
	assert.Equal(t, 2, tableA[1].TeamID)
	assert.Equal(t, 3, tableA[2].TeamID)
	assert.Equal(t, 0, tableA[2].Wins)
	assert.Equal(t, 2, tableA[2].Losses)

	// Pending matches still register their participants with zero rows.
	tableB := standings["B"]
	require.Len(t, tableB, 3)
	assert.Equal(t, 4, tableB[0].TeamID)
	assert.Equal(t, 1, tableB[0].Wins)
}

func TestComputeGroupStandingsPointDiffTiebreak(t *testing.T) {
	narrow := []models.GameScore{{Team1: 21, Team2: 19}, {Team1: 21, Team2: 19}}
	wide := []models.GameScore{{Team1: 21, Team2: 5}, {Team1: 21, Team2: 5}}

	// Three-way 1-1 circle: 1 beats 2 narrowly, 2 beats 3 widely, 3
	// beats 1 narrowly. Wins tie, games tie, point diff decides.
	matches := []*models.BracketMatch{
		groupMatch("A", 1, 0, 1, 2, 1, narrow),
		groupMatch("A", 2, 0, 2, 3, 2, wide),
		groupMatch("A", 3, 0, 3, 1, 3, narrow),
	}

	table := ComputeGroupStandings(matches)["A"]
	require.Len(t, table, 3)
	assert.Equal(t, 2, table[0].TeamID)
	assert.Equal(t, 1, table[0].Rank)
}

func TestInterleaveQualifiers(t *testing.T) {
	standings := map[string][]models.GroupStanding{
		"A": {{TeamID: 1, Rank: 1}, {TeamID: 4, Rank: 2}, {TeamID: 5, Rank: 3}},
		"B": {{TeamID: 2, Rank: 1}, {TeamID: 3, Rank: 2}, {TeamID: 6, Rank: 3}},
	}

	qualifiers, err := InterleaveQualifiers(standings, 2)
	require.NoError(t, err)
	require.Len(t, qualifiers, 4)

	// Rank-major, group-alphabetical: 1A, 1B, 2A, 2B.
	assert.Equal(t, 1, qualifiers[0].TeamID)
	assert.Equal(t, 2, qualifiers[1].TeamID)
	assert.Equal(t, 4, qualifiers[2].TeamID)
	assert.Equal(t, 3, qualifiers[3].TeamID)
}

func TestInterleaveQualifiersCrossGroupPairing(t *testing.T) {
	// Feeding the interleaved qualifiers into the knockout draw pairs
	// 1A with 2B and 1B with 2A in the semi-finals.
	teams := makeTeams(4)
	// Order the fixture as the interleave emits: 1A, 1B, 2A, 2B.
	spec, err := buildEliminationBracket(teams, models.BracketKnockout)
	require.NoError(t, err)

	round1 := nodesOf(spec, models.BracketKnockout, 1)
	require.Len(t, round1, 2)
	assert.Equal(t, 1, *round1[0].Team1ID) // 1A
	assert.Equal(t, 4, *round1[0].Team2ID) // 2B
	assert.Equal(t, 2, *round1[1].Team1ID) // 1B
	assert.Equal(t, 3, *round1[1].Team2ID) // 2A
}

func TestInterleaveQualifiersErrors(t *testing.T) {
	standings := map[string][]models.GroupStanding{
		"A": {{TeamID: 1, Rank: 1}},
		"B": {{TeamID: 2, Rank: 1}},
	}

	_, err := InterleaveQualifiers(standings, 0)
	assert.Error(t, err)

	_, err = InterleaveQualifiers(standings, 2)
	assert.Error(t, err, "groups shorter than advancing count")
}

func intPtr(v int) *int { return &v }
