package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var (
	ErrInvalidGroupCount = errors.New("number of groups must be at least 2")
	ErrInvalidGroupLabel = errors.New("team carries a group label outside the configured groups")
)

// GroupLetter returns the label of the i-th group: 0 -> "A", 1 -> "B", ...
func GroupLetter(i int) string {
	return string(rune('A' + i))
}

type GroupStageGenerator struct{}

func NewGroupStageGenerator() Generator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) GetName() string {
	return "GroupStage"
}

// GenerateBracket distributes the seeded teams into groups and lays out
// an independent round robin per group under GROUP_<letter> bracket
// types. Group labels are written onto the team structs; persisting them
// is the caller's concern.
func (g *GroupStageGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error) {
	groups, err := AssignGroups(params.Teams, params.Tournament.NumberOfGroups)
	if err != nil {
		return nil, err
	}

	spec := &BracketSpec{}
	for i, group := range groups {
		letter := GroupLetter(i)
		for _, team := range group {
			label := letter
			team.GroupLabel = &label
		}
		groupSpec, err := buildRoundRobin(group, models.GroupBracketType(letter))
		if err != nil {
			return nil, fmt.Errorf("failed to lay out group %s: %w", letter, err)
		}
		spec.Nodes = append(spec.Nodes, groupSpec.Nodes...)
	}

	return spec, nil
}

// AssignGroups splits the seeded teams into numGroups groups. Teams with
// a manual group label keep it; the remainder go to the smallest group.
// When no team carries a label, all are distributed by snake seeding:
// forward across the groups on even passes, reverse on odd passes, so
// seed strength stays balanced.
func AssignGroups(teams []*models.Team, numGroups int) ([][]*models.Team, error) {
	if numGroups < 2 {
		return nil, ErrInvalidGroupCount
	}
	if len(teams) < 2*numGroups {
		return nil, fmt.Errorf("need at least %d teams for %d groups, have %d: %w",
			2*numGroups, numGroups, len(teams), ErrTooFewTeams)
	}

	groups := make([][]*models.Team, numGroups)

	manual := false
	for _, t := range teams {
		if t.GroupLabel != nil && *t.GroupLabel != "" {
			manual = true
			break
		}
	}

	if !manual {
		for i, t := range teams {
			pass, lane := i/numGroups, i%numGroups
			if pass%2 != 0 {
				lane = numGroups - 1 - lane
			}
			groups[lane] = append(groups[lane], t)
		}
		return groups, nil
	}

	var unlabeled []*models.Team
	for _, t := range teams {
		if t.GroupLabel == nil || *t.GroupLabel == "" {
			unlabeled = append(unlabeled, t)
			continue
		}
		idx := int(rune((*t.GroupLabel)[0]) - 'A')
		if len(*t.GroupLabel) != 1 || idx < 0 || idx >= numGroups {
			return nil, fmt.Errorf("team %d labeled %q: %w", t.ID, *t.GroupLabel, ErrInvalidGroupLabel)
		}
		groups[idx] = append(groups[idx], t)
	}

	for _, t := range unlabeled {
		smallest := 0
		for i := 1; i < numGroups; i++ {
			if len(groups[i]) < len(groups[smallest]) {
				smallest = i
			}
		}
		groups[smallest] = append(groups[smallest], t)
	}

	return groups, nil
}

// ComputeGroupStandings folds completed group matches into per-group
// ranked tables. Only COMPLETED matches count; points are summed over
// finished games.
func ComputeGroupStandings(matches []*models.BracketMatch) map[string][]models.GroupStanding {
	rows := make(map[string]map[int]*models.GroupStanding)

	ensure := func(group string, teamID int) *models.GroupStanding {
		if rows[group] == nil {
			rows[group] = make(map[int]*models.GroupStanding)
		}
		if rows[group][teamID] == nil {
			rows[group][teamID] = &models.GroupStanding{TeamID: teamID, Group: group}
		}
		return rows[group][teamID]
	}

	for _, m := range matches {
		if !m.BracketType.IsGroup() {
			continue
		}
		group := m.BracketType.GroupLetter()
		if m.Team1ID != nil {
			ensure(group, *m.Team1ID)
		}
		if m.Team2ID != nil {
			ensure(group, *m.Team2ID)
		}
		if m.Status != models.MatchStatusCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}

		row1 := ensure(group, *m.Team1ID)
		row2 := ensure(group, *m.Team2ID)
		row1.Played++
		row2.Played++
		row1.GamesWon += m.Score.Team1GamesWon
		row1.GamesLost += m.Score.Team2GamesWon
		row2.GamesWon += m.Score.Team2GamesWon
		row2.GamesLost += m.Score.Team1GamesWon
		for _, g := range m.Score.Games {
			row1.PointsFor += g.Team1
			row1.PointsAgainst += g.Team2
			row2.PointsFor += g.Team2
			row2.PointsAgainst += g.Team1
		}
		if m.WinnerID != nil && *m.WinnerID == *m.Team1ID {
			row1.Wins++
			row2.Losses++
		} else if m.WinnerID != nil {
			row2.Wins++
			row1.Losses++
		}
	}

	standings := make(map[string][]models.GroupStanding, len(rows))
	for group, byTeam := range rows {
		table := make([]models.GroupStanding, 0, len(byTeam))
		for _, row := range byTeam {
			row.PointDiff = row.PointsFor - row.PointsAgainst
			table = append(table, *row)
		}
		sort.SliceStable(table, func(i, j int) bool {
			if table[i].Wins != table[j].Wins {
				return table[i].Wins > table[j].Wins
			}
			if table[i].GamesWon != table[j].GamesWon {
				return table[i].GamesWon > table[j].GamesWon
			}
			if table[i].PointDiff != table[j].PointDiff {
				return table[i].PointDiff > table[j].PointDiff
			}
			return table[i].TeamID < table[j].TeamID
		})
		for i := range table {
			table[i].Rank = i + 1
		}
		standings[group] = table
	}

	return standings
}

// InterleaveQualifiers picks the top advancingPerGroup teams of every
// group and interleaves them by group rank: all rank 1 qualifiers in
// group order, then all rank 2, and so on. With two groups this pairs
// 1st of A against 2nd of B once the list is fed into the knockout draw.
func InterleaveQualifiers(standings map[string][]models.GroupStanding, advancingPerGroup int) ([]models.GroupStanding, error) {
	if advancingPerGroup < 1 {
		return nil, fmt.Errorf("advancing per group must be positive, got %d", advancingPerGroup)
	}

	groups := make([]string, 0, len(standings))
	for g := range standings {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	qualifiers := make([]models.GroupStanding, 0, advancingPerGroup*len(groups))
	for rank := 1; rank <= advancingPerGroup; rank++ {
		for _, g := range groups {
			table := standings[g]
			if len(table) < rank {
				return nil, fmt.Errorf("group %s has only %d ranked teams, need %d", g, len(table), rank)
			}
			qualifiers = append(qualifiers, table[rank-1])
		}
	}
	return qualifiers, nil
}

// KnockoutGenerator feeds group-stage qualifiers, already interleaved by
// group rank, into the single-elimination draw under the KNOCKOUT
// bracket type.
type KnockoutGenerator struct{}

func NewKnockoutGenerator() Generator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) GetName() string {
	return "KnockoutFromStandings"
}

func (g *KnockoutGenerator) GenerateBracket(ctx context.Context, params GenerateParams) (*BracketSpec, error) {
	return buildEliminationBracket(params.Teams, models.BracketKnockout)
}
