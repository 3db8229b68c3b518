package models

// TournamentBracket is the full read model of a tournament's competition
// graph, returned by bracket generation and the bracket view endpoint.
type TournamentBracket struct {
	Tournament *Tournament   `json:"tournament"`
	Teams      []Team        `json:"teams"`
	Nodes      []BracketNode `json:"nodes"`
	Matches    []Match       `json:"matches"`
}

// GroupStageResult is the outcome of closing the group stage: the
// qualifiers in knockout seeding order plus the appended knockout graph.
type GroupStageResult struct {
	Qualifiers []GroupStanding    `json:"qualifiers"`
	Bracket    *TournamentBracket `json:"bracket"`
}
