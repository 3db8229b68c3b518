package brackets

import (
	"context"
	"fmt"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

// NodeKey is the structural identity of a bracket node before it has a
// storage id: (bracket type, round, position). All links inside a
// BracketSpec are expressed with NodeKeys and resolved to row ids by the
// materializer in a second pass.
type NodeKey struct {
	BracketType models.BracketType `json:"bracket_type"`
	Round       int                `json:"round"`
	Position    int                `json:"position"`
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s/R%d/P%d", k.BracketType, k.Round, k.Position)
}

// NodeSpec describes one node of the bracket graph to be materialized.
//
// HasMatch requests an eager match row. Team1ID/Team2ID pre-fill its
// slots; a nil slot is filled later by the advancement engine. ByeTeamID
// marks automatic advancement with no match. PendingBye marks a node
// that will only ever receive one participant, so the advancement engine
// forwards the arrival onward instead of opening a one-sided match.
type NodeSpec struct {
	Key NodeKey

	Team1ID   *int
	Team2ID   *int
	ByeTeamID *int

	HasMatch   bool
	RoundLabel string
	PendingBye bool

	NextKey      *NodeKey
	LoserNextKey *NodeKey
}

// BracketSpec is a generator's output: the complete set of node specs in
// creation order.
type BracketSpec struct {
	Nodes []*NodeSpec
}

func (s *BracketSpec) add(n *NodeSpec) *NodeSpec {
	s.Nodes = append(s.Nodes, n)
	return n
}

// Node returns the spec with the given structural key, or nil.
func (s *BracketSpec) Node(key NodeKey) *NodeSpec {
	for _, n := range s.Nodes {
		if n.Key == key {
			return n
		}
	}
	return nil
}

// GenerateParams carries everything a generator needs. Teams must
// already be seeded: ordered by seed with dense seed numbers assigned.
type GenerateParams struct {
	Tournament *models.Tournament
	Teams      []*models.Team
}

type Generator interface {
	GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error)

	GetName() string
}

// RoundLabel derives the human-readable label for a round from the
// bracket size remaining when the round starts.
func RoundLabel(bracketType models.BracketType, round, totalRounds int) string {
	switch {
	case bracketType == models.BracketGrandFinals:
		return "Grand Final"
	case bracketType == models.BracketLosers:
		return fmt.Sprintf("Losers Round %d", round)
	case bracketType.IsGroup():
		return fmt.Sprintf("Group %s - Round %d", bracketType.GroupLetter(), round)
	}

	remaining := 1 << uint(totalRounds-round+1)
	switch remaining {
	case 2:
		return "Final"
	case 4:
		return "Semi-Final"
	case 8:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round of %d", remaining)
	}
}
