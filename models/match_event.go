package models

import "time"

// MatchEventType enumerates the rows of the append-only per-match event
// log. Undo is realized as log truncation, so UNDO never appears as a
// stored row; the constant exists for the wire-level event feed.
type MatchEventType string

const (
	EventMatchStart  MatchEventType = "MATCH_START"
	EventGameStart   MatchEventType = "GAME_START"
	EventPointScored MatchEventType = "POINT_SCORED"
	EventGameEnd     MatchEventType = "GAME_END"
	EventMatchEnd    MatchEventType = "MATCH_END"
	EventUndo        MatchEventType = "UNDO"
	EventTimeout     MatchEventType = "TIMEOUT"
	EventInjuryBreak MatchEventType = "INJURY_BREAK"
)

// IsBreak reports whether the event is a play interruption that carries
// no score information.
func (t MatchEventType) IsBreak() bool {
	return t == EventTimeout || t == EventInjuryBreak
}

// MatchEvent is one row of the event trail. Sequence is strictly
// increasing per match and is the source of truth for undo.
type MatchEvent struct {
	ID            int            `json:"id" db:"id"`
	MatchID       int            `json:"match_id" db:"match_id"`
	Sequence      int            `json:"sequence" db:"sequence"`
	Type          MatchEventType `json:"type" db:"type"`
	GameNumber    int            `json:"game_number" db:"game_number"`
	Team1Score    int            `json:"team1_score" db:"team1_score"`
	Team2Score    int            `json:"team2_score" db:"team2_score"`
	ScoringTeamID *int           `json:"scoring_team_id,omitempty" db:"scoring_team_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}
