package models

import "time"

// Team is one tournament entrant. A singles entrant stores the same
// player id in both slots. Seed and GroupLabel are assigned during
// bracket generation and are immutable afterwards.
type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	GroupLabel   *string   `json:"group_label,omitempty" db:"group_label"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
