package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MatchStatus mirrors the match_status ENUM in the database. Transitions
// are monotonic (UPCOMING -> LIVE -> COMPLETED) except for an explicit
// undo of the terminal scoring event, which reverts COMPLETED to LIVE.
type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "UPCOMING"
	MatchStatusLive      MatchStatus = "LIVE"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

// GameScore is one game's point pair.
type GameScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// DetailedScore is the full scoring state of a match: completed games,
// the in-progress game and per-side game-win counters. It is stored as a
// single JSONB column.
type DetailedScore struct {
	Games         []GameScore `json:"games"`
	CurrentGame   GameScore   `json:"current_game"`
	Team1GamesWon int         `json:"team1_games_won"`
	Team2GamesWon int         `json:"team2_games_won"`
}

// Equal reports whether two detailed scores describe the same state. A
// nil and an empty completed-games slice compare equal.
func (s DetailedScore) Equal(other DetailedScore) bool {
	if s.CurrentGame != other.CurrentGame ||
		s.Team1GamesWon != other.Team1GamesWon ||
		s.Team2GamesWon != other.Team2GamesWon ||
		len(s.Games) != len(other.Games) {
		return false
	}
	for i := range s.Games {
		if s.Games[i] != other.Games[i] {
			return false
		}
	}
	return true
}

func (s DetailedScore) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *DetailedScore) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = DetailedScore{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported source type %T for DetailedScore", src)
	}
}

// Match is a materialized competition between two teams. Team slots are
// nullable: a lazily created match starts with only the first arriving
// winner filled in.
type Match struct {
	ID             int           `json:"id" db:"id"`
	TournamentID   int           `json:"tournament_id" db:"tournament_id"`
	Team1ID        *int          `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID        *int          `json:"team2_id,omitempty" db:"team2_id"`
	Status         MatchStatus   `json:"status" db:"status"`
	WinnerID       *int          `json:"winner_id,omitempty" db:"winner_id"`
	RoundLabel     string        `json:"round_label" db:"round_label"`
	Walkover       bool          `json:"walkover" db:"walkover"`
	WalkoverReason *string       `json:"walkover_reason,omitempty" db:"walkover_reason"`
	Score          DetailedScore `json:"score" db:"score"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// HasTeam reports whether the given team occupies one of the match slots.
func (m *Match) HasTeam(teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}

// OtherTeam returns the opponent of the given team, or nil if the slot is
// still empty or the team is not part of the match.
func (m *Match) OtherTeam(teamID int) *int {
	if m.Team1ID != nil && *m.Team1ID == teamID {
		return m.Team2ID
	}
	if m.Team2ID != nil && *m.Team2ID == teamID {
		return m.Team1ID
	}
	return nil
}

// BracketMatch is the read model of a match joined with its node
// coordinates, used for standings and bracket views.
type BracketMatch struct {
	Match
	BracketType BracketType `json:"bracket_type" db:"bracket_type"`
	Round       int         `json:"round" db:"round"`
	Position    int         `json:"position" db:"position"`
}
