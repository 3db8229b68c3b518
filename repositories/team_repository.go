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
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamTournamentInvalid = errors.New("team references an unknown tournament")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error
	UpdateGroupLabel(ctx context.Context, exec SQLExecutor, id int, label *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, player1_id, player2_id, display_name, seed, group_label)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		team.TournamentID,
		team.Player1ID,
		team.Player2ID,
		team.DisplayName,
		team.Seed,
		team.GroupLabel,
	).Scan(&team.ID, &team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, tournament_id, player1_id, player2_id, display_name, seed, group_label, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.TournamentID,
		&team.Player1ID,
		&team.Player2ID,
		&team.DisplayName,
		&team.Seed,
		&team.GroupLabel,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `
		SELECT id, tournament_id, player1_id, player2_id, display_name, seed, group_label, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY seed ASC NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.TournamentID,
			&team.Player1ID,
			&team.Player2ID,
			&team.DisplayName,
			&team.Seed,
			&team.GroupLabel,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error {
	query := `UPDATE teams SET seed = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, seed, id)
	if err != nil {
		return fmt.Errorf("failed to update seed for team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateGroupLabel(ctx context.Context, exec SQLExecutor, id int, label *string) error {
	query := `UPDATE teams SET group_label = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, label, id)
	if err != nil {
		return fmt.Errorf("failed to update group label for team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		}
	}
	return err
}
