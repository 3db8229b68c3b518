package brackets

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

// DefaultRankingPoints is assumed for players with no recorded ranking.
const DefaultRankingPoints = 1000

// RankingSource is the external statistics collaborator used by
// ranking-based seeding. Implementations return DefaultRankingPoints for
// unknown players rather than an error.
type RankingSource interface {
	RankingPoints(ctx context.Context, playerID int) (float64, error)
}

// SeedTeams orders the given teams by the requested method and assigns
// dense seed numbers 1..N in the final order. The input slice is not
// modified; the returned slice holds the same pointers reordered, with
// their Seed fields updated.
func SeedTeams(
	ctx context.Context,
	teams []*models.Team,
	method models.SeedingMethod,
	ranking RankingSource,
	rng *rand.Rand,
) ([]*models.Team, error) {
	ordered := make([]*models.Team, len(teams))
	copy(ordered, teams)

	switch method {
	case models.SeedingRandom:
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})

	case models.SeedingRankingBased:
		if ranking == nil {
			return nil, fmt.Errorf("ranking-based seeding requires a ranking source")
		}
		scores := make(map[int]float64, len(ordered))
		for _, t := range ordered {
			score, err := teamRankingScore(ctx, ranking, t)
			if err != nil {
				return nil, fmt.Errorf("failed to look up ranking for team %d: %w", t.ID, err)
			}
			scores[t.ID] = score
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return scores[ordered[i].ID] > scores[ordered[j].ID]
		})

	case models.SeedingManual:
		// Pre-assigned seeds ascending, unseeded teams last.
		sort.SliceStable(ordered, func(i, j int) bool {
			si, sj := ordered[i].Seed, ordered[j].Seed
			if si == nil {
				return false
			}
			if sj == nil {
				return true
			}
			return *si < *sj
		})

	default:
		return nil, fmt.Errorf("unknown seeding method %q", method)
	}

	for i, t := range ordered {
		seed := i + 1
		t.Seed = &seed
	}
	return ordered, nil
}

// teamRankingScore is the mean of the members' ranking points. Doubles
// pairs average both players; a singles entrant duplicates the same
// player in both slots, so the mean is just that player's points.
func teamRankingScore(ctx context.Context, ranking RankingSource, team *models.Team) (float64, error) {
	p1, err := ranking.RankingPoints(ctx, team.Player1ID)
	if err != nil {
		return 0, err
	}
	p2, err := ranking.RankingPoints(ctx, team.Player2ID)
	if err != nil {
		return 0, err
	}
	return (p1 + p2) / 2, nil
}

// canonicalSeedOrder returns the standard bracket draw order for a full
// bracket of the given size (a power of two): order(2) = [1,2], and each
// doubling interleaves every seed s with its complement 2k+1-s. For 8
// slots this yields [1,8,4,5,2,7,3,6], i.e. pairs 1v8, 4v5, 2v7, 3v6.
func canonicalSeedOrder(slots int) []int {
	order := []int{1, 2}
	for len(order) < slots {
		doubled := 2 * len(order)
		next := make([]int, 0, doubled)
		for _, s := range order {
			next = append(next, s, doubled+1-s)
		}
		order = next
	}
	return order
}
