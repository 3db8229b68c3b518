package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PlayerRatingRepository reads the ranking points maintained by the
// external statistics system. Missing players get the caller's default.
type PlayerRatingRepository interface {
	GetPoints(ctx context.Context, playerID int, defaultPoints float64) (float64, error)
}

type postgresPlayerRatingRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRatingRepository(db *sql.DB) PlayerRatingRepository {
	return &postgresPlayerRatingRepository{db: db}
}

func (r *postgresPlayerRatingRepository) GetPoints(ctx context.Context, playerID int, defaultPoints float64) (float64, error) {
	query := `SELECT points FROM player_ratings WHERE player_id = $1`

	var points float64
	err := r.db.QueryRowContext(ctx, query, playerID).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultPoints, nil
		}
		return 0, fmt.Errorf("failed to query rating for player %d: %w", playerID, err)
	}
	return points, nil
}
