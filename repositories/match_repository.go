package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an unknown team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	// ListWithNodes joins matches with their node coordinates; matches
	// without a node (consolation) carry their own synthetic node row.
	ListWithNodes(ctx context.Context, tournamentID int) ([]*models.BracketMatch, error)
	ListByRoundLabel(ctx context.Context, tournamentID int, roundLabel string, status *models.MatchStatus) ([]*models.Match, error)
	ExistsByRoundLabel(ctx context.Context, tournamentID int, roundLabel string) (bool, error)
	UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, score models.DetailedScore) error
	Complete(ctx context.Context, exec SQLExecutor, id int, winnerID int, score models.DetailedScore, walkover bool, walkoverReason *string) error
	Reopen(ctx context.Context, exec SQLExecutor, id int, score models.DetailedScore) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, team1_id, team2_id, status, winner_id, round_label,
	walkover, walkover_reason, score, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, team1_id, team2_id, status, winner_id, round_label,
			 walkover, walkover_reason, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Team1ID,
		match.Team2ID,
		match.Status,
		match.WinnerID,
		match.RoundLabel,
		match.Walkover,
		match.WalkoverReason,
		match.Score,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.Team1ID,
		&match.Team2ID,
		&match.Status,
		&match.WinnerID,
		&match.RoundLabel,
		&match.Walkover,
		&match.WalkoverReason,
		&match.Score,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Team1ID,
			&match.Team2ID,
			&match.Status,
			&match.WinnerID,
			&match.RoundLabel,
			&match.Walkover,
			&match.WalkoverReason,
			&match.Score,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListWithNodes(ctx context.Context, tournamentID int) ([]*models.BracketMatch, error) {
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.status, m.winner_id, m.round_label,
		       m.walkover, m.walkover_reason, m.score, m.created_at,
		       n.bracket_type, n.round, n.position
		FROM matches m
		JOIN bracket_nodes n ON n.match_id = m.id
		WHERE m.tournament_id = $1
		ORDER BY n.bracket_type ASC, n.round ASC, n.position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.BracketMatch, 0)
	for rows.Next() {
		var bm models.BracketMatch
		if scanErr := rows.Scan(
			&bm.ID,
			&bm.TournamentID,
			&bm.Team1ID,
			&bm.Team2ID,
			&bm.Status,
			&bm.WinnerID,
			&bm.RoundLabel,
			&bm.Walkover,
			&bm.WalkoverReason,
			&bm.Score,
			&bm.CreatedAt,
			&bm.BracketType,
			&bm.Round,
			&bm.Position,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket match row: %w", scanErr)
		}
		matches = append(matches, &bm)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByRoundLabel(ctx context.Context, tournamentID int, roundLabel string, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND round_label = $2`
	args := []interface{}{tournamentID, roundLabel}
	if status != nil {
		query += ` AND status = $3`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q matches for tournament %d: %w", roundLabel, tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Team1ID,
			&match.Team2ID,
			&match.Status,
			&match.WinnerID,
			&match.RoundLabel,
			&match.Walkover,
			&match.WalkoverReason,
			&match.Score,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ExistsByRoundLabel(ctx context.Context, tournamentID int, roundLabel string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM matches WHERE tournament_id = $1 AND round_label = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, roundLabel).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query %q existence for tournament %d: %w", roundLabel, tournamentID, err)
	}
	return exists, nil
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, id int, team1ID, team2ID *int) error {
	query := `UPDATE matches SET team1_id = $1, team2_id = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, team1ID, team2ID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, score models.DetailedScore) error {
	query := `UPDATE matches SET score = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, score, id)
	if err != nil {
		return fmt.Errorf("failed to update score for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Complete(ctx context.Context, exec SQLExecutor, id int, winnerID int, score models.DetailedScore, walkover bool, walkoverReason *string) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, score = $3, walkover = $4, walkover_reason = $5
		WHERE id = $6`
	result, err := exec.ExecContext(ctx, query,
		models.MatchStatusCompleted, winnerID, score, walkover, walkoverReason, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// Reopen reverts a completed match to LIVE, clearing the winner. Used
// only by the undo of a terminal scoring event.
func (r *postgresMatchRepository) Reopen(ctx context.Context, exec SQLExecutor, id int, score models.DetailedScore) error {
	query := `UPDATE matches SET status = $1, winner_id = NULL, score = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, models.MatchStatusLive, score, id)
	if err != nil {
		return fmt.Errorf("failed to reopen match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
