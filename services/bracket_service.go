package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
)

type BracketService interface {
	// GenerateBracket seeds the tournament's teams, runs the format's
	// topology generator and materializes the resulting graph in one
	// transaction.
	GenerateBracket(ctx context.Context, tournamentID int) (*models.TournamentBracket, error)
	GetBracket(ctx context.Context, tournamentID int) (*models.TournamentBracket, error)
	// CompleteGroupStage closes the group phase once every group match
	// is finished and appends the knockout graph built from standings.
	CompleteGroupStage(ctx context.Context, tournamentID int) (*models.GroupStageResult, error)
}

type bracketService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	nodeRepo       repositories.BracketNodeRepository
	matchRepo      repositories.MatchRepository
	ranking        brackets.RankingSource
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	nodeRepo repositories.BracketNodeRepository,
	matchRepo repositories.MatchRepository,
	ranking brackets.RankingSource,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		nodeRepo:       nodeRepo,
		matchRepo:      matchRepo,
		ranking:        ranking,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID int) (*models.TournamentBracket, error) {
	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.BracketGenerated {
		return nil, ErrBracketAlreadyGenerated
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	if len(teams) < 2 {
		return nil, ErrNotEnoughTeams
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seeded, err := brackets.SeedTeams(ctx, teams, tournament.SeedingMethod, s.ranking, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to seed teams for tournament %d: %w", tournamentID, err)
	}

	generator, err := generatorForFormat(tournament.Format)
	if err != nil {
		return nil, err
	}

	spec, err := generator.GenerateBracket(ctx, brackets.GenerateParams{
		Tournament: tournament,
		Teams:      seeded,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrTooFewTeams) {
			return nil, ErrNotEnoughTeams
		}
		return nil, fmt.Errorf("%s generator failed for tournament %d: %w", generator.GetName(), tournamentID, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for _, team := range seeded {
			if team.Seed == nil {
				continue
			}
			if err := s.teamRepo.UpdateSeed(ctx, tx, team.ID, *team.Seed); err != nil {
				return err
			}
			if team.GroupLabel != nil {
				if err := s.teamRepo.UpdateGroupLabel(ctx, tx, team.ID, team.GroupLabel); err != nil {
					return err
				}
			}
		}
		if err := s.materializeSpec(ctx, tx, tournamentID, spec); err != nil {
			return err
		}
		return s.tournamentRepo.SetBracketGenerated(ctx, tx, tournamentID, true)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(tournament.Format)),
		slog.Int("teams", len(seeded)),
		slog.Int("nodes", len(spec.Nodes)))

	bracket, err := s.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastEvent(tournamentID, brackets.EventBracketGenerated, bracket)
	return bracket, nil
}

func (s *bracketService) CompleteGroupStage(ctx context.Context, tournamentID int) (*models.GroupStageResult, error) {
	tournament, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatGroupKnockout {
		return nil, ErrWrongFormat
	}
	if !tournament.BracketGenerated {
		return nil, ErrBracketNotGenerated
	}

	hasKnockout, err := s.nodeRepo.HasBracketType(ctx, tournamentID, models.BracketKnockout)
	if err != nil {
		return nil, err
	}
	if hasKnockout {
		return nil, ErrKnockoutAlreadyGenerated
	}

	matches, err := s.matchRepo.ListWithNodes(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.BracketType.IsGroup() && m.Status != models.MatchStatusCompleted {
			return nil, ErrGroupStageIncomplete
		}
	}

	standings := brackets.ComputeGroupStandings(matches)
	qualifiers, err := brackets.InterleaveQualifiers(standings, tournament.AdvancingPerGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to pick qualifiers for tournament %d: %w", tournamentID, err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	qualifierTeams := make([]*models.Team, 0, len(qualifiers))
	for i := range qualifiers {
		team, ok := teamsByID[qualifiers[i].TeamID]
		if !ok {
			return nil, fmt.Errorf("qualifier team %d: %w", qualifiers[i].TeamID, ErrTeamNotFound)
		}
		qualifiers[i].Team = team
		qualifierTeams = append(qualifierTeams, team)
	}

	spec, err := brackets.NewKnockoutGenerator().GenerateBracket(ctx, brackets.GenerateParams{
		Tournament: tournament,
		Teams:      qualifierTeams,
	})
	if err != nil {
		return nil, fmt.Errorf("knockout generator failed for tournament %d: %w", tournamentID, err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return s.materializeSpec(ctx, tx, tournamentID, spec)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group stage completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("qualifiers", len(qualifiers)))

	bracket, err := s.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	result := &models.GroupStageResult{Qualifiers: qualifiers, Bracket: bracket}
	s.hub.BroadcastEvent(tournamentID, brackets.EventGroupStageCompleted, result)
	return result, nil
}

// GetBracket loads the full read model, fetching the independent pieces
// in parallel.
func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*models.TournamentBracket, error) {
	bracket := &models.TournamentBracket{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tournament, err := s.loadTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		bracket.Tournament = tournament
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		bracket.Teams = make([]models.Team, len(teams))
		for i, t := range teams {
			bracket.Teams[i] = *t
		}
		return nil
	})

	g.Go(func() error {
		nodes, err := s.nodeRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		bracket.Nodes = make([]models.BracketNode, len(nodes))
		for i, n := range nodes {
			bracket.Nodes[i] = *n
		}
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return err
		}
		bracket.Matches = make([]models.Match, len(matches))
		for i, m := range matches {
			bracket.Matches[i] = *m
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bracket, nil
}

// materializeSpec persists a generator's output: matches and nodes
// first, then a second pass resolving the structural links to row ids.
// The caller owns the transaction, so a failure anywhere aborts the
// whole graph.
func (s *bracketService) materializeSpec(ctx context.Context, tx *sql.Tx, tournamentID int, spec *brackets.BracketSpec) error {
	nodeIDs := make(map[brackets.NodeKey]int, len(spec.Nodes))

	for _, ns := range spec.Nodes {
		var matchID *int
		if ns.HasMatch {
			match := &models.Match{
				TournamentID: tournamentID,
				Team1ID:      ns.Team1ID,
				Team2ID:      ns.Team2ID,
				Status:       models.MatchStatusUpcoming,
				RoundLabel:   ns.RoundLabel,
				Score:        models.DetailedScore{Games: []models.GameScore{}},
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create match for node %s: %w", ns.Key, err)
			}
			matchID = &match.ID
		}

		node := &models.BracketNode{
			TournamentID: tournamentID,
			BracketType:  ns.Key.BracketType,
			Round:        ns.Key.Round,
			Position:     ns.Key.Position,
			MatchID:      matchID,
			ByeTeamID:    ns.ByeTeamID,
			PendingBye:   ns.PendingBye,
		}
		if err := s.nodeRepo.Create(ctx, tx, node); err != nil {
			return fmt.Errorf("failed to create node %s: %w", ns.Key, err)
		}
		nodeIDs[ns.Key] = node.ID
	}

	for _, ns := range spec.Nodes {
		if ns.NextKey == nil && ns.LoserNextKey == nil {
			continue
		}
		var nextID, loserNextID *int
		if ns.NextKey != nil {
			id, ok := nodeIDs[*ns.NextKey]
			if !ok {
				return fmt.Errorf("node %s links to unknown node %s", ns.Key, ns.NextKey)
			}
			nextID = &id
		}
		if ns.LoserNextKey != nil {
			id, ok := nodeIDs[*ns.LoserNextKey]
			if !ok {
				return fmt.Errorf("node %s loser-links to unknown node %s", ns.Key, ns.LoserNextKey)
			}
			loserNextID = &id
		}
		if err := s.nodeRepo.UpdateLinks(ctx, tx, nodeIDs[ns.Key], nextID, loserNextID); err != nil {
			return err
		}
	}

	return nil
}

func (s *bracketService) loadTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *bracketService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func generatorForFormat(format models.TournamentFormat) (brackets.Generator, error) {
	switch format {
	case models.FormatSingleElimination:
		return brackets.NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return brackets.NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return brackets.NewRoundRobinGenerator(), nil
	case models.FormatGroupKnockout:
		return brackets.NewGroupStageGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrWrongFormat, format)
	}
}
