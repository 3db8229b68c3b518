package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
	"github.com/suryaKurella/badminton-tournament-software-sub001/scoring"
	"github.com/suryaKurella/badminton-tournament-software-sub001/utils"
)

// undoTailRows is how many trailing non-break events fully describe the
// last rally: a rally appends at most three rows (the point plus its
// game or match boundary pair).
const undoTailRows = 3

// PointResult is what a recorded rally changed.
type PointResult struct {
	Match         *models.Match `json:"match"`
	GameComplete  bool          `json:"game_complete"`
	MatchComplete bool          `json:"match_complete"`
	WinnerID      *int          `json:"winner_id,omitempty"`
}

type ScoringService interface {
	// StartMatch flips an UPCOMING match to LIVE and opens its event log.
	StartMatch(ctx context.Context, matchID int) (*models.Match, error)
	// RecordPoint scores one rally for the given team, folding game and
	// match completion into the log and triggering advancement when the
	// match is decided. Scoring an UPCOMING match starts it implicitly.
	RecordPoint(ctx context.Context, matchID int, scoringTeamID int) (*PointResult, error)
	// UndoLastPoint reverts the most recent rally by truncating the
	// trailing rows of the event log, reopening the game or the match if
	// the rally had closed one.
	UndoLastPoint(ctx context.Context, matchID int) (*models.Match, error)
	// RecordBreak logs a play interruption. Breaks carry a score
	// snapshot but never change it.
	RecordBreak(ctx context.Context, matchID int, breakType models.MatchEventType) (*models.MatchEvent, error)
	CancelMatch(ctx context.Context, matchID int) (*models.Match, error)
	// ListEvents returns the full event trail together with the score
	// projected from it, so auditors can compare the projection against
	// the stored match score.
	ListEvents(ctx context.Context, matchID int) (*EventTrail, error)
}

// EventTrail is the audit view of a match log: every stored event plus
// the detailed score rebuilt from those events alone.
type EventTrail struct {
	Events         []*models.MatchEvent `json:"events"`
	ProjectedScore models.DetailedScore `json:"projected_score"`
}

type scoringService struct {
	db          *sql.DB
	matchRepo   repositories.MatchRepository
	eventRepo   repositories.MatchEventRepository
	advancement AdvancementService
	hub         *brackets.Hub
	locks       *utils.KeyedMutex
	logger      *slog.Logger
}

func NewScoringService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	advancement AdvancementService,
	hub *brackets.Hub,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		db:          db,
		matchRepo:   matchRepo,
		eventRepo:   eventRepo,
		advancement: advancement,
		hub:         hub,
		locks:       utils.NewKeyedMutex(),
		logger:      logger,
	}
}

func (s *scoringService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	switch match.Status {
	case models.MatchStatusLive:
		return match, nil
	case models.MatchStatusCompleted, models.MatchStatusCancelled:
		return nil, ErrMatchFinished
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, ErrMatchMissingTeams
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return s.openMatchLog(ctx, tx, match)
	})
	if err != nil {
		return nil, err
	}
	match.Status = models.MatchStatusLive

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *scoringService) RecordPoint(ctx context.Context, matchID int, scoringTeamID int) (*PointResult, error) {
	unlock := s.locks.Lock(matchID)

	result, tournamentID, err := s.recordPointLocked(ctx, matchID, scoringTeamID)
	unlock()
	if err != nil {
		return nil, err
	}

	if result.MatchComplete {
		s.hub.BroadcastEvent(tournamentID, brackets.EventMatchCompleted, result.Match)
		// Advancement failures leave the completed match intact; routing
		// is retried by advancing the match again.
		if err := s.advancement.AdvanceWinner(ctx, matchID); err != nil {
			s.logger.Error("failed to advance winner after match end",
				slog.Int("match_id", matchID), slog.Any("error", err))
		}
	} else {
		s.hub.BroadcastEvent(tournamentID, brackets.EventMatchUpdated, result.Match)
	}
	return result, nil
}

func (s *scoringService) recordPointLocked(ctx context.Context, matchID, scoringTeamID int) (*PointResult, int, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, 0, err
	}
	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusCancelled {
		return nil, 0, ErrMatchFinished
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, 0, ErrMatchMissingTeams
	}
	if !match.HasTeam(scoringTeamID) {
		return nil, 0, ErrTeamNotInMatch
	}

	side := 1
	if *match.Team2ID == scoringTeamID {
		side = 2
	}

	score := match.Score
	outcome, err := scoring.ApplyPoint(&score, side)
	if err != nil {
		if errors.Is(err, scoring.ErrMatchDecided) {
			return nil, 0, ErrMatchFinished
		}
		return nil, 0, err
	}

	result := &PointResult{
		Match:         match,
		GameComplete:  outcome.GameComplete,
		MatchComplete: outcome.MatchComplete,
	}
	if outcome.MatchComplete {
		winnerID := *match.Team1ID
		if scoring.MatchWinnerSide(score.Team1GamesWon, score.Team2GamesWon) == 2 {
			winnerID = *match.Team2ID
		}
		result.WinnerID = &winnerID
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if match.Status == models.MatchStatusUpcoming {
			if err := s.openMatchLog(ctx, tx, match); err != nil {
				return err
			}
		}

		for _, event := range scoring.RallyEvents(outcome, scoringTeamID) {
			event.MatchID = matchID
			if err := s.eventRepo.Append(ctx, tx, event); err != nil {
				return err
			}
		}

		if outcome.MatchComplete {
			return s.matchRepo.Complete(ctx, tx, matchID, *result.WinnerID, score, false, nil)
		}
		return s.matchRepo.UpdateScore(ctx, tx, matchID, score)
	})
	if err != nil {
		return nil, 0, err
	}

	match.Score = score
	match.Status = models.MatchStatusLive
	if outcome.MatchComplete {
		match.Status = models.MatchStatusCompleted
		match.WinnerID = result.WinnerID
	}
	return result, match.TournamentID, nil
}

func (s *scoringService) UndoLastPoint(ctx context.Context, matchID int) (*models.Match, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCancelled || match.Status == models.MatchStatusUpcoming {
		return nil, ErrNothingToUndo
	}

	events, err := s.eventRepo.LastNonBreakEvents(ctx, matchID, undoTailRows)
	if err != nil {
		return nil, err
	}

	step, err := scoring.PlanUndo(events)
	if err != nil {
		if errors.Is(err, scoring.ErrNoRally) {
			return nil, ErrNothingToUndo
		}
		return nil, err
	}

	side := 1
	if step.ScoringTeamID != nil && match.Team2ID != nil && *step.ScoringTeamID == *match.Team2ID {
		side = 2
	}

	score := match.Score
	if step.GameReopened {
		// The rally closed a game (and possibly the match); pop that game
		// back open before reverting the point itself.
		if err := scoring.ReopenLastGame(&score); err != nil {
			return nil, ErrNothingToUndo
		}
	}
	if err := scoring.UndoPoint(&score, side); err != nil {
		return nil, ErrNothingToUndo
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.eventRepo.DeleteFromSequence(ctx, tx, matchID, step.FromSequence); err != nil {
			return err
		}
		if step.MatchReopened {
			return s.matchRepo.Reopen(ctx, tx, matchID, score)
		}
		return s.matchRepo.UpdateScore(ctx, tx, matchID, score)
	})
	if err != nil {
		return nil, err
	}

	match.Score = score
	match.Status = models.MatchStatusLive
	match.WinnerID = nil

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *scoringService) RecordBreak(ctx context.Context, matchID int, breakType models.MatchEventType) (*models.MatchEvent, error) {
	if !breakType.IsBreak() {
		return nil, fmt.Errorf("event type %s is not a break", breakType)
	}

	unlock := s.locks.Lock(matchID)
	defer unlock()

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusLive {
		return nil, ErrMatchNotLive
	}

	event := &models.MatchEvent{
		MatchID:    matchID,
		Type:       breakType,
		GameNumber: len(match.Score.Games) + 1,
		Team1Score: match.Score.CurrentGame.Team1,
		Team2Score: match.Score.CurrentGame.Team2,
	}
	if err := s.eventRepo.Append(ctx, s.db, event); err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, event)
	return event, nil
}

func (s *scoringService) CancelMatch(ctx context.Context, matchID int) (*models.Match, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchFinished
	}

	if err := s.matchRepo.UpdateStatus(ctx, s.db, matchID, models.MatchStatusCancelled); err != nil {
		return nil, err
	}
	match.Status = models.MatchStatusCancelled

	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *scoringService) ListEvents(ctx context.Context, matchID int) (*EventTrail, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	trail := &EventTrail{
		Events:         events,
		ProjectedScore: scoring.ProjectScore(events),
	}
	if match.Status == models.MatchStatusLive && !trail.ProjectedScore.Equal(match.Score) {
		s.logger.Warn("stored match score diverges from event trail projection",
			slog.Int("match_id", matchID))
	}
	return trail, nil
}

// openMatchLog transitions the match to LIVE and writes the opening
// MATCH_START and GAME_START rows.
func (s *scoringService) openMatchLog(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	if err := s.matchRepo.UpdateStatus(ctx, tx, match.ID, models.MatchStatusLive); err != nil {
		return err
	}
	if err := s.appendEvent(ctx, tx, match.ID, models.EventMatchStart, 1, models.GameScore{}, nil); err != nil {
		return err
	}
	return s.appendEvent(ctx, tx, match.ID, models.EventGameStart, 1, models.GameScore{}, nil)
}

func (s *scoringService) appendEvent(ctx context.Context, exec repositories.SQLExecutor, matchID int, eventType models.MatchEventType, gameNumber int, snapshot models.GameScore, scoringTeamID *int) error {
	event := &models.MatchEvent{
		MatchID:       matchID,
		Type:          eventType,
		GameNumber:    gameNumber,
		Team1Score:    snapshot.Team1,
		Team2Score:    snapshot.Team2,
		ScoringTeamID: scoringTeamID,
	}
	return s.eventRepo.Append(ctx, exec, event)
}

func (s *scoringService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *scoringService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
