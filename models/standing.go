package models

// GroupStanding is one row of a group's ranked table. Ordering is
// wins desc, games won desc, point differential desc; Rank is dense
// starting at 1 within the group.
type GroupStanding struct {
	TeamID        int    `json:"team_id"`
	Group         string `json:"group"`
	Rank          int    `json:"rank"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GamesWon      int    `json:"games_won"`
	GamesLost     int    `json:"games_lost"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	PointDiff     int    `json:"point_diff"`

	Team *Team `json:"team,omitempty"`
}

// LeaderboardEntry aggregates a team's results across the whole
// tournament, all bracket types included.
type LeaderboardEntry struct {
	TeamID    int    `json:"team_id"`
	Rank      int    `json:"rank"`
	Played    int    `json:"played"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	GamesWon  int    `json:"games_won"`
	PointDiff int    `json:"point_diff"`
	Team      *Team  `json:"team,omitempty"`
}
