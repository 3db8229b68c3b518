package services

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
)

type StandingsService interface {
	// GetGroupStandings returns the ranked table of every group, keyed by
	// group letter. Only completed matches count.
	GetGroupStandings(ctx context.Context, tournamentID int) (map[string][]models.GroupStanding, error)
	// GetLeaderboard aggregates results across all bracket types into a
	// single ranked list.
	GetLeaderboard(ctx context.Context, tournamentID int) ([]models.LeaderboardEntry, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
	}
}

func (s *standingsService) GetGroupStandings(ctx context.Context, tournamentID int) (map[string][]models.GroupStanding, error) {
	tournament, matches, teamsByID, err := s.loadResults(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatGroupKnockout {
		return nil, ErrWrongFormat
	}

	standings := brackets.ComputeGroupStandings(matches)
	for group := range standings {
		table := standings[group]
		for i := range table {
			table[i].Team = teamsByID[table[i].TeamID]
		}
	}
	return standings, nil
}

func (s *standingsService) GetLeaderboard(ctx context.Context, tournamentID int) ([]models.LeaderboardEntry, error) {
	_, matches, teamsByID, err := s.loadResults(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[int]*models.LeaderboardEntry, len(teamsByID))
	for id, team := range teamsByID {
		byTeam[id] = &models.LeaderboardEntry{TeamID: id, Team: team}
	}
	ensure := func(teamID int) *models.LeaderboardEntry {
		if byTeam[teamID] == nil {
			byTeam[teamID] = &models.LeaderboardEntry{TeamID: teamID}
		}
		return byTeam[teamID]
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		e1, e2 := ensure(*m.Team1ID), ensure(*m.Team2ID)
		e1.Played++
		e2.Played++
		e1.GamesWon += m.Score.Team1GamesWon
		e2.GamesWon += m.Score.Team2GamesWon
		for _, g := range m.Score.Games {
			e1.PointDiff += g.Team1 - g.Team2
			e2.PointDiff += g.Team2 - g.Team1
		}
		if m.WinnerID != nil && *m.WinnerID == *m.Team1ID {
			e1.Wins++
			e2.Losses++
		} else if m.WinnerID != nil {
			e2.Wins++
			e1.Losses++
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(byTeam))
	for _, e := range byTeam {
		entries = append(entries, *e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if entries[i].GamesWon != entries[j].GamesWon {
			return entries[i].GamesWon > entries[j].GamesWon
		}
		if entries[i].PointDiff != entries[j].PointDiff {
			return entries[i].PointDiff > entries[j].PointDiff
		}
		return entries[i].TeamID < entries[j].TeamID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *standingsService) loadResults(ctx context.Context, tournamentID int) (*models.Tournament, []*models.BracketMatch, map[int]*models.Team, error) {
	var (
		tournament *models.Tournament
		matches    []*models.BracketMatch
		teams      []*models.Team
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		m, err := s.matchRepo.ListWithNodes(gCtx, tournamentID)
		if err != nil {
			return err
		}
		matches = m
		return nil
	})
	g.Go(func() error {
		t, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		teams = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}
	return tournament, matches, teamsByID, nil
}
