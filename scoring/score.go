// Package scoring implements badminton rally scoring for best-of-3
// matches: a game goes to 21 with a two-point lead, hard-capped at 30.
// The rules are pure functions over the match's detailed score so the
// live state machine stays testable without storage.
package scoring

import (
	"errors"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

const (
	// WinningPoints is the rally score a side must reach with a two
	// point lead to take a game.
	WinningPoints = 21
	// MaxPoints is the hard cap; reaching it wins the game regardless
	// of lead.
	MaxPoints = 30
	// GamesToWin decides the match (best of 3).
	GamesToWin = 2
)

var (
	ErrMatchDecided = errors.New("match is already decided")
	ErrInvalidSide  = errors.New("scoring side must be 1 or 2")
	ErrNoPoints     = errors.New("no points to undo in the current game")
	ErrNoGames      = errors.New("no completed games to reopen")
)

// GameComplete reports whether a game with the given points is over:
// one side at >=21 leading by >=2, or either side at the hard cap.
func GameComplete(points1, points2 int) bool {
	hi, lo := points1, points2
	if hi < lo {
		hi, lo = lo, hi
	}
	if hi >= MaxPoints {
		return true
	}
	return hi >= WinningPoints && hi-lo >= 2
}

// GameWinnerSide returns 1 or 2 for a completed game, 0 otherwise.
func GameWinnerSide(points1, points2 int) int {
	if !GameComplete(points1, points2) {
		return 0
	}
	if points1 > points2 {
		return 1
	}
	return 2
}

// MatchComplete reports whether either side has won enough games.
func MatchComplete(games1, games2 int) bool {
	return games1 >= GamesToWin || games2 >= GamesToWin
}

// MatchWinnerSide returns 1 or 2 for a decided match, 0 otherwise.
func MatchWinnerSide(games1, games2 int) int {
	switch {
	case games1 >= GamesToWin:
		return 1
	case games2 >= GamesToWin:
		return 2
	default:
		return 0
	}
}

// PointOutcome describes the effect of a single rally.
type PointOutcome struct {
	// GameNumber the point belongs to, counted from 1.
	GameNumber int
	// PostPoint is the running score of that game right after the point.
	PostPoint models.GameScore
	// GameWinnerSide is set when the point finished a game.
	GameWinnerSide int
	GameComplete   bool
	MatchComplete  bool
}

// ApplyPoint scores one rally for the given side and folds a finished
// game into the score's game list, resetting the running game unless
// the match is decided.
func ApplyPoint(score *models.DetailedScore, side int) (PointOutcome, error) {
	if side != 1 && side != 2 {
		return PointOutcome{}, ErrInvalidSide
	}
	if MatchComplete(score.Team1GamesWon, score.Team2GamesWon) {
		return PointOutcome{}, ErrMatchDecided
	}

	if side == 1 {
		score.CurrentGame.Team1++
	} else {
		score.CurrentGame.Team2++
	}

	outcome := PointOutcome{
		GameNumber: len(score.Games) + 1,
		PostPoint:  score.CurrentGame,
	}

	if !GameComplete(score.CurrentGame.Team1, score.CurrentGame.Team2) {
		return outcome, nil
	}

	outcome.GameComplete = true
	outcome.GameWinnerSide = GameWinnerSide(score.CurrentGame.Team1, score.CurrentGame.Team2)

	score.Games = append(score.Games, score.CurrentGame)
	if outcome.GameWinnerSide == 1 {
		score.Team1GamesWon++
	} else {
		score.Team2GamesWon++
	}
	score.CurrentGame = models.GameScore{}

	outcome.MatchComplete = MatchComplete(score.Team1GamesWon, score.Team2GamesWon)
	return outcome, nil
}

// UndoPoint reverts one rally for the given side within the running
// game. It is the exact inverse of a non-game-ending ApplyPoint.
func UndoPoint(score *models.DetailedScore, side int) error {
	switch side {
	case 1:
		if score.CurrentGame.Team1 == 0 {
			return ErrNoPoints
		}
		score.CurrentGame.Team1--
	case 2:
		if score.CurrentGame.Team2 == 0 {
			return ErrNoPoints
		}
		score.CurrentGame.Team2--
	default:
		return ErrInvalidSide
	}
	return nil
}

// ReopenLastGame pops the most recently completed game back into the
// running score and decrements its winner's game counter. Used when an
// undo crosses a game or match boundary.
func ReopenLastGame(score *models.DetailedScore) error {
	if len(score.Games) == 0 {
		return ErrNoGames
	}

	last := score.Games[len(score.Games)-1]
	score.Games = score.Games[:len(score.Games)-1]
	score.CurrentGame = last

	if GameWinnerSide(last.Team1, last.Team2) == 1 {
		score.Team1GamesWon--
	} else {
		score.Team2GamesWon--
	}
	return nil
}

// ProjectScore rebuilds the detailed score from the event trail alone.
// Events carry running-score snapshots, so projection is a single pass.
func ProjectScore(events []*models.MatchEvent) models.DetailedScore {
	var score models.DetailedScore
	for _, ev := range events {
		switch ev.Type {
		case models.EventPointScored:
			score.CurrentGame = models.GameScore{Team1: ev.Team1Score, Team2: ev.Team2Score}
		case models.EventGameEnd:
			game := models.GameScore{Team1: ev.Team1Score, Team2: ev.Team2Score}
			score.Games = append(score.Games, game)
			if GameWinnerSide(game.Team1, game.Team2) == 1 {
				score.Team1GamesWon++
			} else {
				score.Team2GamesWon++
			}
			score.CurrentGame = models.GameScore{}
		case models.EventGameStart:
			score.CurrentGame = models.GameScore{}
		}
	}
	return score
}
