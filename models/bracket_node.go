package models

import (
	"strings"
	"time"
)

// BracketType identifies which phase of the competition graph a node
// belongs to. Group nodes use the dynamic form GROUP_<letter>.
type BracketType string

const (
	BracketMain        BracketType = "MAIN"
	BracketWinners     BracketType = "WINNERS"
	BracketLosers      BracketType = "LOSERS"
	BracketGrandFinals BracketType = "GRAND_FINALS"
	BracketKnockout    BracketType = "KNOCKOUT"
)

const groupBracketPrefix = "GROUP_"

// GroupBracketType builds the bracket type for a group letter, e.g. "A" -> GROUP_A.
func GroupBracketType(letter string) BracketType {
	return BracketType(groupBracketPrefix + letter)
}

func (t BracketType) IsGroup() bool {
	return strings.HasPrefix(string(t), groupBracketPrefix)
}

// GroupLetter returns the letter of a GROUP_<letter> bracket type, or "" if
// the type is not a group type.
func (t BracketType) GroupLetter() string {
	if !t.IsGroup() {
		return ""
	}
	return strings.TrimPrefix(string(t), groupBracketPrefix)
}

// BracketNode is one slot in the competition graph.
// (tournament_id, bracket_type, round, position) is unique.
//
// NextNodeID points at the node the winner proceeds to. LoserNextNodeID is
// set on WINNERS nodes only and points into the losers bracket. PendingBye
// marks a node that will only ever receive a single participant (its other
// feeder is a bye), so the advancement engine forwards the arrival instead
// of creating a one-sided match.
type BracketNode struct {
	ID              int         `json:"id" db:"id"`
	TournamentID    int         `json:"tournament_id" db:"tournament_id"`
	BracketType     BracketType `json:"bracket_type" db:"bracket_type"`
	Round           int         `json:"round" db:"round"`
	Position        int         `json:"position" db:"position"`
	MatchID         *int        `json:"match_id,omitempty" db:"match_id"`
	ByeTeamID       *int        `json:"bye_team_id,omitempty" db:"bye_team_id"`
	NextNodeID      *int        `json:"next_node_id,omitempty" db:"next_node_id"`
	LoserNextNodeID *int        `json:"loser_next_node_id,omitempty" db:"loser_next_node_id"`
	PendingBye      bool        `json:"pending_bye" db:"pending_bye"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}
