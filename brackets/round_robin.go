package brackets

import (
	"context"
	"fmt"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error) {
	return buildRoundRobin(params.Teams, models.BracketMain)
}

// buildRoundRobin schedules every pair of teams exactly once using the
// circle method: slot 0 stays fixed while the remaining slots rotate one
// step per round, so no team plays twice in the same round. An odd team
// count is padded with a null bye slot; pairings against it produce no
// match.
func buildRoundRobin(teams []*models.Team, bracketType models.BracketType) (*BracketSpec, error) {
	if len(teams) < 2 {
		return nil, ErrTooFewTeams
	}

	slots := make([]*models.Team, len(teams))
	copy(slots, teams)
	if len(slots)%2 != 0 {
		slots = append(slots, nil)
	}

	n := len(slots)
	rounds := n - 1

	spec := &BracketSpec{}
	for round := 0; round < rounds; round++ {
		position := 0
		for m := 0; m < n/2; m++ {
			team1 := slots[circleIndex(m, n, round)]
			team2 := slots[circleIndex(n-1-m, n, round)]
			if team1 == nil || team2 == nil {
				continue
			}

			// Alternate who is first-named in the fixed pairing so the
			// share of first-named matches stays even.
			if m == 0 && round%2 != 0 {
				team1, team2 = team2, team1
			}

			node := spec.add(&NodeSpec{
				Key:        NodeKey{BracketType: bracketType, Round: round + 1, Position: position},
				RoundLabel: roundRobinLabel(bracketType, round+1),
				HasMatch:   true,
			})
			node.Team1ID = &team1.ID
			node.Team2ID = &team2.ID
			position++
		}
	}

	return spec, nil
}

func roundRobinLabel(bracketType models.BracketType, round int) string {
	if bracketType.IsGroup() {
		return fmt.Sprintf("Group %s - Round %d", bracketType.GroupLetter(), round)
	}
	return fmt.Sprintf("Round %d", round)
}

// circleIndex rotates a slot index per the round-robin circle method,
// keeping index 0 fixed.
func circleIndex(index, length, round int) int {
	if index == 0 {
		return 0
	}
	index -= 1
	index -= round
	index += length - 1
	index %= length - 1
	return index + 1
}
