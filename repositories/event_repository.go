package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var ErrEventNotFound = errors.New("match event not found")

type MatchEventRepository interface {
	// Append writes the event with the next sequence number for its
	// match. The caller must hold the per-match lock; sequence
	// assignment itself is a single INSERT ... SELECT.
	Append(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	// LastNonBreakEvents returns up to limit trailing events, newest
	// first, excluding break rows. Filtering in the query means any
	// run of trailing TIMEOUT / INJURY_BREAK rows cannot push the last
	// rally out of the window.
	LastNonBreakEvents(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error)
	// DeleteFromSequence removes every event with sequence >= fromSeq,
	// truncating the tail of the log.
	DeleteFromSequence(ctx context.Context, exec SQLExecutor, matchID int, fromSeq int) error
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

const eventColumns = `id, match_id, sequence, type, game_number, team1_score, team2_score,
	scoring_team_id, created_at`

func (r *postgresMatchEventRepository) Append(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error {
	query := `
		INSERT INTO match_events
			(match_id, sequence, type, game_number, team1_score, team2_score, scoring_team_id)
		SELECT $1, COALESCE(MAX(sequence), 0) + 1, $2, $3, $4, $5, $6
		FROM match_events WHERE match_id = $1
		RETURNING id, sequence, created_at`

	err := exec.QueryRowContext(ctx, query,
		event.MatchID,
		event.Type,
		event.GameNumber,
		event.Team1Score,
		event.Team2Score,
		event.ScoringTeamID,
	).Scan(&event.ID, &event.Sequence, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append %s event for match %d: %w", event.Type, event.MatchID, err)
	}
	return nil
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM match_events WHERE match_id = $1 ORDER BY sequence ASC`
	return r.queryEvents(ctx, query, matchID)
}

func (r *postgresMatchEventRepository) LastNonBreakEvents(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM match_events
		WHERE match_id = $1 AND type NOT IN ($2, $3)
		ORDER BY sequence DESC LIMIT $4`
	return r.queryEvents(ctx, query, matchID, models.EventTimeout, models.EventInjuryBreak, limit)
}

func (r *postgresMatchEventRepository) DeleteFromSequence(ctx context.Context, exec SQLExecutor, matchID int, fromSeq int) error {
	query := `DELETE FROM match_events WHERE match_id = $1 AND sequence >= $2`
	result, err := exec.ExecContext(ctx, query, matchID, fromSeq)
	if err != nil {
		return fmt.Errorf("failed to truncate event log for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresMatchEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*models.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		var event models.MatchEvent
		if scanErr := rows.Scan(
			&event.ID,
			&event.MatchID,
			&event.Sequence,
			&event.Type,
			&event.GameNumber,
			&event.Team1Score,
			&event.Team2Score,
			&event.ScoringTeamID,
			&event.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match event row: %w", scanErr)
		}
		events = append(events, &event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match event rows iteration: %w", err)
	}
	return events, nil
}
