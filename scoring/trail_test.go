package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

func trailRow(seq int, eventType models.MatchEventType, game, t1, t2 int) *models.MatchEvent {
	return &models.MatchEvent{
		Sequence:   seq,
		Type:       eventType,
		GameNumber: game,
		Team1Score: t1,
		Team2Score: t2,
	}
}

func TestRallyEventsMidGame(t *testing.T) {
	outcome := PointOutcome{
		GameNumber: 2,
		PostPoint:  models.GameScore{Team1: 5, Team2: 7},
	}

	events := RallyEvents(outcome, 42)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventPointScored, events[0].Type)
	assert.Equal(t, 2, events[0].GameNumber)
	assert.Equal(t, 5, events[0].Team1Score)
	assert.Equal(t, 7, events[0].Team2Score)
	require.NotNil(t, events[0].ScoringTeamID)
	assert.Equal(t, 42, *events[0].ScoringTeamID)
}

func TestRallyEventsGameBoundary(t *testing.T) {
	outcome := PointOutcome{
		GameNumber:     1,
		PostPoint:      models.GameScore{Team1: 21, Team2: 15},
		GameWinnerSide: 1,
		GameComplete:   true,
	}

	events := RallyEvents(outcome, 42)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventPointScored, events[0].Type)
	assert.Equal(t, models.EventGameEnd, events[1].Type)
	assert.Equal(t, models.GameScore{Team1: 21, Team2: 15},
		models.GameScore{Team1: events[1].Team1Score, Team2: events[1].Team2Score})
	assert.Equal(t, models.EventGameStart, events[2].Type)
	assert.Equal(t, 2, events[2].GameNumber)
	assert.Zero(t, events[2].Team1Score)
	assert.Zero(t, events[2].Team2Score)
}

func TestRallyEventsMatchBoundaryKeepsGameSnapshot(t *testing.T) {
	outcome := PointOutcome{
		GameNumber:     2,
		PostPoint:      models.GameScore{Team1: 21, Team2: 18},
		GameWinnerSide: 1,
		GameComplete:   true,
		MatchComplete:  true,
	}

	events := RallyEvents(outcome, 42)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventMatchEnd, events[2].Type)
	assert.Equal(t, 2, events[2].GameNumber)

	// The closing row carries the final game's running score, like every
	// other row; game tallies are derivable from the GAME_END rows.
	assert.Equal(t, 21, events[2].Team1Score)
	assert.Equal(t, 18, events[2].Team2Score)
}

func TestProjectScoreMatchesAppliedScore(t *testing.T) {
	const team1, team2 = 100, 200
	var score models.DetailedScore
	trail := []*models.MatchEvent{
		{Type: models.EventMatchStart, GameNumber: 1},
		{Type: models.EventGameStart, GameNumber: 1},
	}

	rally := func(side int) {
		outcome, err := ApplyPoint(&score, side)
		require.NoError(t, err)
		teamID := team1
		if side == 2 {
			teamID = team2
		}
		trail = append(trail, RallyEvents(outcome, teamID)...)
	}

	for i := 0; i < 21; i++ {
		rally(1)
	}
	for i := 0; i < 5; i++ {
		rally(2)
	}

	assert.True(t, ProjectScore(trail).Equal(score))
}

func TestPlanUndoTailPoint(t *testing.T) {
	team := 7
	point := trailRow(5, models.EventPointScored, 1, 3, 2)
	point.ScoringTeamID = &team

	step, err := PlanUndo([]*models.MatchEvent{
		point,
		trailRow(4, models.EventPointScored, 1, 2, 2),
		trailRow(3, models.EventPointScored, 1, 2, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, step.FromSequence)
	assert.False(t, step.GameReopened)
	assert.False(t, step.MatchReopened)
	require.NotNil(t, step.ScoringTeamID)
	assert.Equal(t, 7, *step.ScoringTeamID)
}

func TestPlanUndoGameBoundary(t *testing.T) {
	step, err := PlanUndo([]*models.MatchEvent{
		trailRow(8, models.EventGameStart, 2, 0, 0),
		trailRow(7, models.EventGameEnd, 1, 21, 15),
		trailRow(6, models.EventPointScored, 1, 21, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, step.FromSequence)
	assert.True(t, step.GameReopened)
	assert.False(t, step.MatchReopened)
}

func TestPlanUndoMatchBoundary(t *testing.T) {
	step, err := PlanUndo([]*models.MatchEvent{
		trailRow(9, models.EventMatchEnd, 2, 21, 18),
		trailRow(8, models.EventGameEnd, 2, 21, 18),
		trailRow(7, models.EventPointScored, 2, 21, 18),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, step.FromSequence)
	assert.True(t, step.GameReopened)
	assert.True(t, step.MatchReopened)
}

func TestPlanUndoSkipsBreakRuns(t *testing.T) {
	// A long run of interruptions after the rally must not hide it.
	trail := make([]*models.MatchEvent, 0, 12)
	for seq := 20; seq > 10; seq-- {
		trail = append(trail, trailRow(seq, models.EventTimeout, 1, 11, 9))
	}
	trail = append(trail, trailRow(10, models.EventPointScored, 1, 11, 9))

	step, err := PlanUndo(trail)
	require.NoError(t, err)
	assert.Equal(t, 10, step.FromSequence)
	assert.False(t, step.GameReopened)
}

func TestPlanUndoNothingToRevert(t *testing.T) {
	cases := map[string][]*models.MatchEvent{
		"empty trail": {},
		"opening rows only": {
			trailRow(2, models.EventGameStart, 1, 0, 0),
			trailRow(1, models.EventMatchStart, 1, 0, 0),
		},
		"match start only": {
			trailRow(1, models.EventMatchStart, 1, 0, 0),
		},
		"breaks before any rally": {
			trailRow(4, models.EventInjuryBreak, 1, 0, 0),
			trailRow(3, models.EventTimeout, 1, 0, 0),
			trailRow(2, models.EventGameStart, 1, 0, 0),
			trailRow(1, models.EventMatchStart, 1, 0, 0),
		},
	}
	for name, trail := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PlanUndo(trail)
			assert.ErrorIs(t, err, ErrNoRally)
		})
	}
}
