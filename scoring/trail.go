package scoring

import (
	"errors"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

// ErrNoRally reports an event trail with no undoable rally: empty, or
// nothing after the opening MATCH_START / GAME_START rows.
var ErrNoRally = errors.New("no rally to undo in the event trail")

// RallyEvents returns the log rows a scored rally appends, in order:
// the POINT_SCORED row, plus a GAME_END and either a GAME_START or a
// MATCH_END when the rally closed a game or the match. Every row
// carries the running game score at that instant; the match-level game
// tallies are derivable from the GAME_END rows.
func RallyEvents(outcome PointOutcome, scoringTeamID int) []*models.MatchEvent {
	teamID := scoringTeamID
	events := []*models.MatchEvent{{
		Type:          models.EventPointScored,
		GameNumber:    outcome.GameNumber,
		Team1Score:    outcome.PostPoint.Team1,
		Team2Score:    outcome.PostPoint.Team2,
		ScoringTeamID: &teamID,
	}}
	if !outcome.GameComplete {
		return events
	}

	events = append(events, &models.MatchEvent{
		Type:       models.EventGameEnd,
		GameNumber: outcome.GameNumber,
		Team1Score: outcome.PostPoint.Team1,
		Team2Score: outcome.PostPoint.Team2,
	})

	if outcome.MatchComplete {
		events = append(events, &models.MatchEvent{
			Type:       models.EventMatchEnd,
			GameNumber: outcome.GameNumber,
			Team1Score: outcome.PostPoint.Team1,
			Team2Score: outcome.PostPoint.Team2,
		})
	} else {
		events = append(events, &models.MatchEvent{
			Type:       models.EventGameStart,
			GameNumber: outcome.GameNumber + 1,
		})
	}
	return events
}

// UndoStep describes how to revert the last rally of an event trail:
// truncate the log from FromSequence and, when the rally had closed the
// game or the match, reopen it before taking the point back.
type UndoStep struct {
	FromSequence  int
	ScoringTeamID *int
	GameReopened  bool
	MatchReopened bool
}

// PlanUndo inspects a match's trailing events, newest first, and
// returns the undo step for the last rally. Break rows are skipped.
// The undoable trailing shapes are:
//
//	... POINT_SCORED
//	... POINT_SCORED GAME_END GAME_START
//	... POINT_SCORED GAME_END MATCH_END
//
// A trail that ends at MATCH_START or at the first game's GAME_START
// has no rally to revert.
func PlanUndo(newestFirst []*models.MatchEvent) (UndoStep, error) {
	var point, tail *models.MatchEvent
	for _, ev := range newestFirst {
		if ev.Type.IsBreak() {
			continue
		}
		if tail == nil {
			tail = ev
		}
		if ev.Type == models.EventPointScored {
			point = ev
			break
		}
		if ev.Type == models.EventMatchStart {
			break
		}
	}

	if tail == nil || point == nil || tail.Type == models.EventMatchStart ||
		(tail.Type == models.EventGameStart && tail.GameNumber == 1) {
		return UndoStep{}, ErrNoRally
	}

	return UndoStep{
		FromSequence:  point.Sequence,
		ScoringTeamID: point.ScoringTeamID,
		GameReopened:  tail.Type != models.EventPointScored,
		MatchReopened: tail.Type == models.EventMatchEnd,
	}, nil
}
