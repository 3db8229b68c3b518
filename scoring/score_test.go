package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func TestGameComplete(t *testing.T) {
	cases := []struct {
		p1, p2 int
		want   bool
	}{
		{0, 0, false},
		{21, 19, true},
		{19, 21, true},
		{21, 20, false},
		{20, 19, false},
		{20, 20, false},
		{22, 20, true},
		{24, 22, true},
		{29, 29, false},
		{30, 29, true},
		{29, 30, true},
		{30, 28, true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d-%d", tc.p1, tc.p2), func(t *testing.T) {
			assert.Equal(t, tc.want, GameComplete(tc.p1, tc.p2))
		})
	}
}

func TestGameWinnerSide(t *testing.T) {
	assert.Equal(t, 0, GameWinnerSide(20, 19))
	assert.Equal(t, 1, GameWinnerSide(21, 15))
	assert.Equal(t, 2, GameWinnerSide(15, 21))
	assert.Equal(t, 1, GameWinnerSide(30, 29))
}

func TestMatchComplete(t *testing.T) {
	assert.False(t, MatchComplete(0, 0))
	assert.False(t, MatchComplete(1, 1))
	assert.True(t, MatchComplete(2, 0))
	assert.True(t, MatchComplete(2, 1))
	assert.True(t, MatchComplete(0, 2))
	assert.Equal(t, 1, MatchWinnerSide(2, 1))
	assert.Equal(t, 2, MatchWinnerSide(0, 2))
	assert.Equal(t, 0, MatchWinnerSide(1, 1))
}

func TestApplyPointDeuceSequence(t *testing.T) {
	score := models.DetailedScore{CurrentGame: models.GameScore{Team1: 20, Team2: 20}}

	outcome, err := ApplyPoint(&score, 1)
	require.NoError(t, err)
	assert.False(t, outcome.GameComplete)
	assert.Equal(t, models.GameScore{Team1: 21, Team2: 20}, score.CurrentGame)

	outcome, err = ApplyPoint(&score, 1)
	require.NoError(t, err)
	assert.True(t, outcome.GameComplete)
	assert.Equal(t, 1, outcome.GameWinnerSide)
	assert.False(t, outcome.MatchComplete)

	// The finished game folds into the list and the running game resets.
	require.Len(t, score.Games, 1)
	assert.Equal(t, models.GameScore{Team1: 22, Team2: 20}, score.Games[0])
	assert.Equal(t, models.GameScore{}, score.CurrentGame)
	assert.Equal(t, 1, score.Team1GamesWon)
}

func TestApplyPointHardCap(t *testing.T) {
	score := models.DetailedScore{CurrentGame: models.GameScore{Team1: 29, Team2: 29}}

	outcome, err := ApplyPoint(&score, 2)
	require.NoError(t, err)
	assert.True(t, outcome.GameComplete)
	assert.Equal(t, 2, outcome.GameWinnerSide)
	assert.Equal(t, models.GameScore{Team1: 29, Team2: 30}, score.Games[0])
}

func TestApplyPointDecidesMatch(t *testing.T) {
	score := models.DetailedScore{
		Games:         []models.GameScore{{Team1: 21, Team2: 12}},
		Team1GamesWon: 1,
		CurrentGame:   models.GameScore{Team1: 20, Team2: 10},
	}

	outcome, err := ApplyPoint(&score, 1)
	require.NoError(t, err)
	assert.True(t, outcome.GameComplete)
	assert.True(t, outcome.MatchComplete)
	assert.Equal(t, 2, outcome.GameNumber)
	assert.Equal(t, 2, score.Team1GamesWon)

	_, err = ApplyPoint(&score, 2)
	assert.ErrorIs(t, err, ErrMatchDecided)
}

func TestApplyPointThreeGameMatch(t *testing.T) {
	var score models.DetailedScore

	playGame := func(winner int) {
		loser := 3 - winner
		for i := 0; i < 19; i++ {
			_, err := ApplyPoint(&score, loser)
			require.NoError(t, err)
		}
		for i := 0; i < 21; i++ {
			_, err := ApplyPoint(&score, winner)
			require.NoError(t, err)
		}
	}

	playGame(1)
	assert.False(t, MatchComplete(score.Team1GamesWon, score.Team2GamesWon))
	playGame(2)
	assert.False(t, MatchComplete(score.Team1GamesWon, score.Team2GamesWon))
	playGame(1)
	assert.True(t, MatchComplete(score.Team1GamesWon, score.Team2GamesWon))
	assert.Equal(t, 1, MatchWinnerSide(score.Team1GamesWon, score.Team2GamesWon))
	require.Len(t, score.Games, 3)
}

func TestApplyPointInvalidSide(t *testing.T) {
	var score models.DetailedScore
	_, err := ApplyPoint(&score, 3)
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestUndoPointIsInverse(t *testing.T) {
	score := models.DetailedScore{CurrentGame: models.GameScore{Team1: 7, Team2: 5}}
	before := score

	_, err := ApplyPoint(&score, 2)
	require.NoError(t, err)
	require.NoError(t, UndoPoint(&score, 2))

	assert.Equal(t, before, score)
}

func TestUndoPointAtZero(t *testing.T) {
	var score models.DetailedScore
	assert.ErrorIs(t, UndoPoint(&score, 1), ErrNoPoints)
}

func TestReopenLastGame(t *testing.T) {
	score := models.DetailedScore{
		Games:         []models.GameScore{{Team1: 21, Team2: 17}},
		Team1GamesWon: 1,
	}

	require.NoError(t, ReopenLastGame(&score))
	assert.Empty(t, score.Games)
	assert.Equal(t, 0, score.Team1GamesWon)
	assert.Equal(t, models.GameScore{Team1: 21, Team2: 17}, score.CurrentGame)

	// Undoing the game-winning point then lands back mid-game.
	require.NoError(t, UndoPoint(&score, 1))
	assert.Equal(t, models.GameScore{Team1: 20, Team2: 17}, score.CurrentGame)
	assert.False(t, GameComplete(score.CurrentGame.Team1, score.CurrentGame.Team2))
}

func TestReopenLastGameEmpty(t *testing.T) {
	var score models.DetailedScore
	assert.ErrorIs(t, ReopenLastGame(&score), ErrNoGames)
}

func TestProjectScoreRebuildsFromTrail(t *testing.T) {
	team1, team2 := 10, 20
	events := []*models.MatchEvent{
		{Type: models.EventMatchStart, GameNumber: 1},
		{Type: models.EventGameStart, GameNumber: 1},
		{Type: models.EventPointScored, GameNumber: 1, Team1Score: 1, ScoringTeamID: &team1},
		{Type: models.EventPointScored, GameNumber: 1, Team1Score: 21, Team2Score: 14, ScoringTeamID: &team1},
		{Type: models.EventGameEnd, GameNumber: 1, Team1Score: 21, Team2Score: 14},
		{Type: models.EventGameStart, GameNumber: 2},
		{Type: models.EventPointScored, GameNumber: 2, Team1Score: 3, Team2Score: 5, ScoringTeamID: &team2},
		{Type: models.EventTimeout, GameNumber: 2, Team1Score: 3, Team2Score: 5},
	}

	score := ProjectScore(events)
	require.Len(t, score.Games, 1)
	assert.Equal(t, models.GameScore{Team1: 21, Team2: 14}, score.Games[0])
	assert.Equal(t, 1, score.Team1GamesWon)
	assert.Equal(t, models.GameScore{Team1: 3, Team2: 5}, score.CurrentGame)
}
