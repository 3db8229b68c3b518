package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "SINGLE_ELIMINATION"
	FormatDoubleElimination TournamentFormat = "DOUBLE_ELIMINATION"
	FormatRoundRobin        TournamentFormat = "ROUND_ROBIN"
	FormatGroupKnockout     TournamentFormat = "GROUP_KNOCKOUT"
)

type SeedingMethod string

const (
	SeedingRandom       SeedingMethod = "RANDOM"
	SeedingRankingBased SeedingMethod = "RANKING_BASED"
	SeedingManual       SeedingMethod = "MANUAL"
)

// Tournament carries the metadata the bracket engine needs. Registration,
// payments and moderation live in a separate system; this service only
// reads format parameters and flips status/bracket_generated.
type Tournament struct {
	ID                int              `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Format            TournamentFormat `json:"format" db:"format"`
	SeedingMethod     SeedingMethod    `json:"seeding_method" db:"seeding_method"`
	NumberOfGroups    int              `json:"number_of_groups" db:"number_of_groups"`
	AdvancingPerGroup int              `json:"advancing_per_group" db:"advancing_per_group"`
	Status            TournamentStatus `json:"status" db:"status"`
	BracketGenerated  bool             `json:"bracket_generated" db:"bracket_generated"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}
