package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func completedMatch(bracketType models.BracketType, label string, team1, team2, winner int, games []models.GameScore) *models.BracketMatch {
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
			Team1ID:    &team1,
			Team2ID:    &team2,
			Status:     models.MatchStatusCompleted,
			WinnerID:   &winner,
			RoundLabel: label,
			Score:      score,
		},
		BracketType: bracketType,
	}
}

var straightWin = []models.GameScore{{Team1: 21, Team2: 15}, {Team1: 21, Team2: 17}}

func TestChampionForSingleElimination(t *testing.T) {
	svc := &advancementService{}
	tournament := &models.Tournament{Format: models.FormatSingleElimination}

	// No final yet.
	matches := []*models.BracketMatch{
		completedMatch(models.BracketMain, "Semi-Final", 1, 2, 1, straightWin),
	}
	assert.Nil(t, svc.championFor(tournament, matches))

	matches = append(matches, completedMatch(models.BracketMain, "Final", 1, 3, 3, straightWin))
	champion := svc.championFor(tournament, matches)
	require.NotNil(t, champion)
	assert.Equal(t, 3, *champion)
}

func TestChampionForDoubleElimination(t *testing.T) {
	svc := &advancementService{}
	tournament := &models.Tournament{Format: models.FormatDoubleElimination}

	matches := []*models.BracketMatch{
		completedMatch(models.BracketWinners, "Final", 1, 2, 1, straightWin),
	}
	assert.Nil(t, svc.championFor(tournament, matches), "winners final alone does not decide")

	matches = append(matches, completedMatch(models.BracketGrandFinals, "Grand Final", 1, 2, 2, straightWin))
	champion := svc.championFor(tournament, matches)
	require.NotNil(t, champion)
	assert.Equal(t, 2, *champion)
}

func TestChampionForGroupKnockout(t *testing.T) {
	svc := &advancementService{}
	tournament := &models.Tournament{Format: models.FormatGroupKnockout}

	matches := []*models.BracketMatch{
		completedMatch(models.GroupBracketType("A"), "Group A - Round 1", 1, 2, 1, straightWin),
		completedMatch(models.BracketKnockout, "Final", 1, 4, 4, straightWin),
	}
	champion := svc.championFor(tournament, matches)
	require.NotNil(t, champion)
	assert.Equal(t, 4, *champion)
}

func TestRoundRobinChampionNeedsAllMatchesSettled(t *testing.T) {
	matches := []*models.BracketMatch{
		completedMatch(models.BracketMain, "Round 1", 1, 2, 1, straightWin),
		{
			Match: models.Match{
				Team1ID: intPtr(1), Team2ID: intPtr(3),
				Status: models.MatchStatusLive,
			},
			BracketType: models.BracketMain,
		},
	}
	assert.Nil(t, roundRobinChampion(matches))
}

func TestRoundRobinChampionByWins(t *testing.T) {
	matches := []*models.BracketMatch{
		completedMatch(models.BracketMain, "Round 1", 1, 2, 1, straightWin),
		completedMatch(models.BracketMain, "Round 2", 1, 3, 1, straightWin),
		completedMatch(models.BracketMain, "Round 3", 2, 3, 2, straightWin),
	}

	champion := roundRobinChampion(matches)
	require.NotNil(t, champion)
	assert.Equal(t, 1, *champion)
}

func TestRoundRobinChampionPointDiffTiebreak(t *testing.T) {
	narrow := []models.GameScore{{Team1: 21, Team2: 19}, {Team1: 21, Team2: 19}}
	wide := []models.GameScore{{Team1: 21, Team2: 5}, {Team1: 21, Team2: 5}}

	// 1-1 circle; the widest winner takes it on point difference.
	matches := []*models.BracketMatch{
		completedMatch(models.BracketMain, "Round 1", 1, 2, 1, narrow),
		completedMatch(models.BracketMain, "Round 2", 2, 3, 2, wide),
		completedMatch(models.BracketMain, "Round 3", 3, 1, 3, narrow),
	}

	champion := roundRobinChampion(matches)
	require.NotNil(t, champion)
	assert.Equal(t, 2, *champion)
}

func TestRoundRobinChampionIgnoresCancelled(t *testing.T) {
	matches := []*models.BracketMatch{
		completedMatch(models.BracketMain, "Round 1", 1, 2, 1, straightWin),
		{
			Match: models.Match{
				Team1ID: intPtr(1), Team2ID: intPtr(3),
				Status: models.MatchStatusCancelled,
			},
			BracketType: models.BracketMain,
		},
	}

	champion := roundRobinChampion(matches)
	require.NotNil(t, champion)
	assert.Equal(t, 1, *champion)
}

func intPtr(v int) *int { return &v }
