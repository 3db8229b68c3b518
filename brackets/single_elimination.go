package brackets

import (
	"context"
	"errors"
	"math/bits"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var ErrTooFewTeams = errors.New("not enough teams to generate a bracket (minimum 2)")

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error) {
	return buildEliminationBracket(params.Teams, models.BracketMain)
}

// eliminationRounds returns ceil(log2(n)), the number of rounds needed
// for n entrants.
func eliminationRounds(n int) int {
	return bits.Len(uint(n - 1))
}

// buildEliminationBracket lays out a knockout bracket for the seeded
// teams under the given bracket type. It is shared by the MAIN bracket,
// the WINNERS half of double elimination and the KNOCKOUT phase after a
// group stage.
//
// Round 1 pairs seeds in canonical draw order; a slot whose opposing
// seed exceeds the entrant count is a bye and the present team is marked
// as the node's bye winner. Bye winners are pre-filled into their round
// 2 match: with one feeder a bye the match is created with that team
// already in place, and with both feeders byes the two bye winners meet
// directly.
func buildEliminationBracket(teams []*models.Team, bracketType models.BracketType) (*BracketSpec, error) {
	n := len(teams)
	if n < 2 {
		return nil, ErrTooFewTeams
	}

	rounds := eliminationRounds(n)
	slots := 1 << uint(rounds)
	order := canonicalSeedOrder(slots)

	spec := &BracketSpec{}
	byRound := make([][]*NodeSpec, rounds+1)

	for r := 1; r <= rounds; r++ {
		count := slots >> uint(r)
		byRound[r] = make([]*NodeSpec, count)
		for p := 0; p < count; p++ {
			node := &NodeSpec{
				Key:        NodeKey{BracketType: bracketType, Round: r, Position: p},
				RoundLabel: RoundLabel(bracketType, r, rounds),
			}
			if r < rounds {
				next := NodeKey{BracketType: bracketType, Round: r + 1, Position: p / 2}
				node.NextKey = &next
			}
			byRound[r][p] = spec.add(node)
		}
	}

	// Round 1: pair seeds by the canonical order, detecting byes.
	for p := 0; p < slots/2; p++ {
		seed1, seed2 := order[2*p], order[2*p+1]
		node := byRound[1][p]

		switch {
		case seed1 <= n && seed2 <= n:
			node.HasMatch = true
			node.Team1ID = &teams[seed1-1].ID
			node.Team2ID = &teams[seed2-1].ID
		case seed1 <= n:
			node.ByeTeamID = &teams[seed1-1].ID
		default:
			node.ByeTeamID = &teams[seed2-1].ID
		}
	}

	// Pre-fill bye winners into their round 2 matches.
	if rounds > 1 {
		for p, node := range byRound[1] {
			if node.ByeTeamID == nil {
				continue
			}
			parent := byRound[2][p/2]
			parent.HasMatch = true
			if p%2 == 0 {
				parent.Team1ID = node.ByeTeamID
			} else {
				parent.Team2ID = node.ByeTeamID
			}
		}
	}

	return spec, nil
}
