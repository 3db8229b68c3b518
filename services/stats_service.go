package services

import (
	"context"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
)

// statsService adapts the player-rating table to the ranking source the
// seeding module consumes. It is the boundary to the external statistics
// system; ranking recomputation itself happens elsewhere.
type statsService struct {
	ratingRepo repositories.PlayerRatingRepository
}

func NewStatsService(ratingRepo repositories.PlayerRatingRepository) brackets.RankingSource {
	return &statsService{ratingRepo: ratingRepo}
}

func (s *statsService) RankingPoints(ctx context.Context, playerID int) (float64, error) {
	return s.ratingRepo.GetPoints(ctx, playerID, brackets.DefaultRankingPoints)
}
