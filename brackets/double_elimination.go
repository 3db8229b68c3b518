package brackets

import (
	"context"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() Generator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds a winners bracket identical to single
// elimination, a losers bracket of 2*rounds-2 internal rounds and a
// single grand-finals node.
//
// Losers-bracket round sizes: round 1 has 2^(rounds-2) nodes, and every
// later round r has 2^(rounds-ceil((r+1)/2)-1). Even rounds receive the
// losers freshly dropped from the winners bracket; odd rounds pit losers
// against each other. The winner of the losers bracket meets the winners
// finalist in a single grand final (no bracket reset).
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error) {
	spec, err := buildEliminationBracket(params.Teams, models.BracketWinners)
	if err != nil {
		return nil, err
	}

	rounds := eliminationRounds(len(params.Teams))
	loserRounds := 2*rounds - 2

	grandFinals := NodeKey{BracketType: models.BracketGrandFinals, Round: 1, Position: 0}

	// Losers bracket skeleton. Odd rounds keep their node count into the
	// following even round (same position); even rounds halve into the
	// next odd round.
	for r := 1; r <= loserRounds; r++ {
		count := loserRoundSize(rounds, r)
		for p := 0; p < count; p++ {
			node := &NodeSpec{
				Key:        NodeKey{BracketType: models.BracketLosers, Round: r, Position: p},
				RoundLabel: RoundLabel(models.BracketLosers, r, loserRounds),
			}
			if r < loserRounds {
				nextPos := p
				if r%2 == 0 {
					nextPos = p / 2
				}
				next := NodeKey{BracketType: models.BracketLosers, Round: r + 1, Position: nextPos}
				node.NextKey = &next
			} else {
				gf := grandFinals
				node.NextKey = &gf
			}
			spec.add(node)
		}
	}

	spec.add(&NodeSpec{
		Key:        grandFinals,
		RoundLabel: RoundLabel(models.BracketGrandFinals, 1, 1),
	})

	// Route each winners node's loser into the losers bracket. Round 1
	// feeds pairwise into losers round 1; winners round r>=2 feeds the
	// even losers round 2(r-1) at the same position. The winners final
	// feeds the last losers round, and its winner goes to the grand
	// final.
	for _, node := range spec.Nodes {
		if node.Key.BracketType != models.BracketWinners {
			continue
		}
		r, p := node.Key.Round, node.Key.Position

		if r == rounds {
			gf := grandFinals
			node.NextKey = &gf
		}

		var loserKey NodeKey
		switch {
		case rounds == 1:
			// Two-team bracket: the sole match's loser goes straight to
			// the grand final for a second life.
			loserKey = grandFinals
		case r == 1:
			loserKey = NodeKey{BracketType: models.BracketLosers, Round: 1, Position: p / 2}
		default:
			loserKey = NodeKey{BracketType: models.BracketLosers, Round: 2 * (r - 1), Position: p}
		}
		node.LoserNextKey = &loserKey
	}

	markStarvedLoserNodes(spec, rounds)

	return spec, nil
}

// loserRoundSize follows the losers-bracket round formula.
func loserRoundSize(rounds, r int) int {
	if r == 1 {
		return 1 << uint(rounds-2)
	}
	return 1 << uint(rounds-(r+1)/2-1)
}

// markStarvedLoserNodes flags losers-bracket nodes that can never
// receive two participants because a winners round 1 bye produces no
// loser. A pending-bye node forwards its single arrival instead of
// opening a match; when a losers round 1 node has no real feeder at all,
// the starvation carries into the round 2 node it would have fed.
func markStarvedLoserNodes(spec *BracketSpec, rounds int) {
	if rounds < 2 {
		return
	}

	realFeeders := make(map[int]int)
	for _, node := range spec.Nodes {
		if node.Key.BracketType == models.BracketWinners && node.Key.Round == 1 && node.HasMatch {
			realFeeders[node.Key.Position/2]++
		}
	}

	for _, node := range spec.Nodes {
		if node.Key.BracketType != models.BracketLosers || node.Key.Round > 2 {
			continue
		}
		feeders := realFeeders[node.Key.Position]
		switch node.Key.Round {
		case 1:
			if feeders == 1 {
				node.PendingBye = true
			}
		case 2:
			// Receives the winners round 2 loser plus, normally, the
			// losers round 1 winner. No round 1 feeders means no such
			// winner ever arrives.
			if realFeeders[node.Key.Position] == 0 {
				node.PendingBye = true
			}
		}
	}
}
