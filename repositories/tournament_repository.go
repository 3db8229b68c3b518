package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	SetBracketGenerated(ctx context.Context, exec SQLExecutor, id int, generated bool) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, format, seeding_method, number_of_groups, advancing_per_group, status, bracket_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Format,
		tournament.SeedingMethod,
		tournament.NumberOfGroups,
		tournament.AdvancingPerGroup,
		tournament.Status,
		tournament.BracketGenerated,
	).Scan(&tournament.ID, &tournament.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, format, seeding_method, number_of_groups, advancing_per_group,
		       status, bracket_generated, created_at
		FROM tournaments
		WHERE id = $1`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Format,
		&tournament.SeedingMethod,
		&tournament.NumberOfGroups,
		&tournament.AdvancingPerGroup,
		&tournament.Status,
		&tournament.BracketGenerated,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) SetBracketGenerated(ctx context.Context, exec SQLExecutor, id int, generated bool) error {
	query := `UPDATE tournaments SET bracket_generated = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, generated, id)
	if err != nil {
		return fmt.Errorf("failed to set bracket_generated for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
