package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
	"github.com/suryaKurella/badminton-tournament-software-sub001/scoring"
	"github.com/suryaKurella/badminton-tournament-software-sub001/storage"
	"github.com/suryaKurella/badminton-tournament-software-sub001/utils"
)

const thirdPlaceLabel = "3rd Place"

type AdvancementService interface {
	// AdvanceWinner routes a completed match's winner (and, in a double
	// elimination winners bracket, its loser) to the linked nodes,
	// creating or filling follow-up matches. Calling it again for the
	// same match is a no-op.
	AdvanceWinner(ctx context.Context, matchID int) error
	// CompleteMatchByWalkover finishes a match without play, records the
	// forfeit and advances the winner.
	CompleteMatchByWalkover(ctx context.Context, matchID int, winnerTeamID int, reason string) (*models.Match, error)
}

type advancementService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	nodeRepo       repositories.BracketNodeRepository
	matchRepo      repositories.MatchRepository
	bracketSvc     BracketService
	uploader       storage.FileUploader
	hub            *brackets.Hub
	locks          *utils.KeyedMutex
	logger         *slog.Logger
}

// NewAdvancementService wires the advancement engine. uploader may be
// nil, in which case finished tournaments are not archived.
func NewAdvancementService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	nodeRepo repositories.BracketNodeRepository,
	matchRepo repositories.MatchRepository,
	bracketSvc BracketService,
	uploader storage.FileUploader,
	hub *brackets.Hub,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		db:             db,
		tournamentRepo: tournamentRepo,
		nodeRepo:       nodeRepo,
		matchRepo:      matchRepo,
		bracketSvc:     bracketSvc,
		uploader:       uploader,
		hub:            hub,
		locks:          utils.NewKeyedMutex(),
		logger:         logger,
	}
}

// broadcastFn defers a hub notification until after the surrounding
// transaction commits.
type broadcastFn func()

func (s *advancementService) AdvanceWinner(ctx context.Context, matchID int) error {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.MatchStatusCompleted || match.WinnerID == nil {
		return ErrMatchNotCompleted
	}

	// Advancement is serialized per tournament so concurrent completions
	// cannot race for the same follow-up slot.
	unlock := s.locks.Lock(match.TournamentID)
	defer unlock()

	node, err := s.nodeRepo.GetByMatchID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNodeNotFound) {
			// A match without bracket coordinates routes nowhere, so the
			// only thing left to check is tournament completion.
			return s.maybeCompleteTournament(ctx, match.TournamentID)
		}
		return err
	}

	var pending []broadcastFn
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if node.NextNodeID != nil {
			fns, err := s.deliverTeam(ctx, tx, *node.NextNodeID, *match.WinnerID)
			if err != nil {
				return err
			}
			pending = append(pending, fns...)
		}
		if node.LoserNextNodeID != nil {
			if loserID := match.OtherTeam(*match.WinnerID); loserID != nil {
				fns, err := s.deliverTeam(ctx, tx, *node.LoserNextNodeID, *loserID)
				if err != nil {
					return err
				}
				pending = append(pending, fns...)
			}
		}
		return s.maybeCreateThirdPlaceMatch(ctx, tx, match, node, &pending)
	})
	if err != nil {
		return err
	}
	for _, fn := range pending {
		fn()
	}

	return s.maybeCompleteTournament(ctx, match.TournamentID)
}

func (s *advancementService) CompleteMatchByWalkover(ctx context.Context, matchID int, winnerTeamID int, reason string) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchStatusCompleted || match.Status == models.MatchStatusCancelled {
		return nil, ErrMatchFinished
	}
	if !match.HasTeam(winnerTeamID) {
		return nil, ErrTeamNotInMatch
	}

	// A forfeit is recorded as two straight games to the winner.
	forfeitGame := models.GameScore{Team1: scoring.WinningPoints}
	if match.Team2ID != nil && *match.Team2ID == winnerTeamID {
		forfeitGame = models.GameScore{Team2: scoring.WinningPoints}
	}
	score := models.DetailedScore{Games: []models.GameScore{forfeitGame, forfeitGame}}
	if forfeitGame.Team1 > 0 {
		score.Team1GamesWon = scoring.GamesToWin
	} else {
		score.Team2GamesWon = scoring.GamesToWin
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	unlock := s.locks.Lock(match.TournamentID)
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		return s.matchRepo.Complete(ctx, tx, matchID, winnerTeamID, score, true, reasonPtr)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	completed, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastEvent(match.TournamentID, brackets.EventMatchCompleted, completed)

	if err := s.AdvanceWinner(ctx, matchID); err != nil {
		// The forfeit itself is committed; routing can be retried.
		s.logger.Error("failed to advance walkover winner",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}
	return completed, nil
}

// deliverTeam places a team into a node: forwards it through pending
// byes, lazily creates the node's match on first arrival, or fills the
// remaining slot. Delivering a team that already occupies a slot is a
// no-op.
func (s *advancementService) deliverTeam(ctx context.Context, tx *sql.Tx, nodeID, teamID int) ([]broadcastFn, error) {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	if node.PendingBye {
		if err := s.nodeRepo.SetByeTeam(ctx, tx, node.ID, teamID); err != nil {
			return nil, err
		}
		if node.NextNodeID == nil {
			return nil, nil
		}
		return s.deliverTeam(ctx, tx, *node.NextNodeID, teamID)
	}

	if node.MatchID == nil {
		maxRound, err := s.nodeRepo.MaxRound(ctx, node.TournamentID, node.BracketType)
		if err != nil {
			return nil, err
		}
		match := &models.Match{
			TournamentID: node.TournamentID,
			Team1ID:      &teamID,
			Status:       models.MatchStatusUpcoming,
			RoundLabel:   brackets.RoundLabel(node.BracketType, node.Round, maxRound),
			Score:        models.DetailedScore{Games: []models.GameScore{}},
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, err
		}
		if err := s.nodeRepo.SetMatchID(ctx, tx, node.ID, match.ID); err != nil {
			return nil, err
		}
		created := match
		return []broadcastFn{func() {
			s.hub.BroadcastEvent(created.TournamentID, brackets.EventMatchCreated, created)
		}}, nil
	}

	match, err := s.loadMatch(ctx, *node.MatchID)
	if err != nil {
		return nil, err
	}
	if match.HasTeam(teamID) {
		return nil, nil
	}
	switch {
	case match.Team1ID == nil:
		match.Team1ID = &teamID
	case match.Team2ID == nil:
		match.Team2ID = &teamID
	default:
		return nil, fmt.Errorf("node %d match %d: %w", node.ID, match.ID, ErrMatchSlotsOccupied)
	}
	if err := s.matchRepo.UpdateTeams(ctx, tx, match.ID, match.Team1ID, match.Team2ID); err != nil {
		return nil, err
	}
	updated := match
	return []broadcastFn{func() {
		s.hub.BroadcastEvent(updated.TournamentID, brackets.EventMatchUpdated, updated)
	}}, nil
}

// maybeCreateThirdPlaceMatch synthesizes the consolation match between
// the semi-final losers once both semis of an elimination draw are done.
// The consolation node sits next to the final and routes nowhere.
func (s *advancementService) maybeCreateThirdPlaceMatch(ctx context.Context, tx *sql.Tx, match *models.Match, node *models.BracketNode, pending *[]broadcastFn) error {
	if node.BracketType != models.BracketMain && node.BracketType != models.BracketKnockout {
		return nil
	}
	if match.RoundLabel != "Semi-Final" {
		return nil
	}

	exists, err := s.matchRepo.ExistsByRoundLabel(ctx, match.TournamentID, thirdPlaceLabel)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	completed := models.MatchStatusCompleted
	semis, err := s.matchRepo.ListByRoundLabel(ctx, match.TournamentID, "Semi-Final", &completed)
	if err != nil {
		return err
	}
	if len(semis) != 2 {
		return nil
	}

	losers := make([]*int, 0, 2)
	for _, semi := range semis {
		if semi.WinnerID == nil {
			return nil
		}
		loser := semi.OtherTeam(*semi.WinnerID)
		if loser == nil {
			// A semi decided by bye has no loser to send down.
			return nil
		}
		losers = append(losers, loser)
	}

	consolation := &models.Match{
		TournamentID: match.TournamentID,
		Team1ID:      losers[0],
		Team2ID:      losers[1],
		Status:       models.MatchStatusUpcoming,
		RoundLabel:   thirdPlaceLabel,
		Score:        models.DetailedScore{Games: []models.GameScore{}},
	}
	if err := s.matchRepo.Create(ctx, tx, consolation); err != nil {
		return err
	}

	thirdPlaceNode := &models.BracketNode{
		TournamentID: match.TournamentID,
		BracketType:  node.BracketType,
		Round:        node.Round + 1,
		Position:     1,
		MatchID:      &consolation.ID,
	}
	if err := s.nodeRepo.Create(ctx, tx, thirdPlaceNode); err != nil {
		return err
	}

	*pending = append(*pending, func() {
		s.hub.BroadcastEvent(consolation.TournamentID, brackets.EventMatchCreated, consolation)
	})
	return nil
}

// maybeCompleteTournament checks the format's terminal condition and, if
// met, flips the tournament to completed, broadcasts the result and
// archives a bracket snapshot. Failures of the archive upload are logged
// only.
func (s *advancementService) maybeCompleteTournament(ctx context.Context, tournamentID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return nil
	}

	matches, err := s.matchRepo.ListWithNodes(ctx, tournamentID)
	if err != nil {
		return err
	}

	championID := s.championFor(tournament, matches)
	if championID == nil {
		return nil
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, s.db, tournamentID, models.TournamentStatusCompleted); err != nil {
		return err
	}
	s.logger.Info("tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("champion_team_id", *championID))

	s.hub.BroadcastEvent(tournamentID, brackets.EventTournamentCompleted, map[string]interface{}{
		"tournament_id":    tournamentID,
		"champion_team_id": *championID,
	})

	s.archiveBracketSnapshot(ctx, tournamentID)
	return nil
}

// championFor returns the winning team once the format's deciding match
// (or, for round robin, the whole schedule) is finished, nil otherwise.
func (s *advancementService) championFor(tournament *models.Tournament, matches []*models.BracketMatch) *int {
	switch tournament.Format {
	case models.FormatSingleElimination:
		return winnerOfLabel(matches, models.BracketMain, "Final")
	case models.FormatDoubleElimination:
		return winnerOfBracket(matches, models.BracketGrandFinals)
	case models.FormatGroupKnockout:
		return winnerOfLabel(matches, models.BracketKnockout, "Final")
	case models.FormatRoundRobin:
		return roundRobinChampion(matches)
	default:
		return nil
	}
}

func winnerOfLabel(matches []*models.BracketMatch, bracketType models.BracketType, label string) *int {
	for _, m := range matches {
		if m.BracketType == bracketType && m.RoundLabel == label && m.Status == models.MatchStatusCompleted {
			return m.WinnerID
		}
	}
	return nil
}

func winnerOfBracket(matches []*models.BracketMatch, bracketType models.BracketType) *int {
	for _, m := range matches {
		if m.BracketType == bracketType && m.Status == models.MatchStatusCompleted {
			return m.WinnerID
		}
	}
	return nil
}

// roundRobinChampion requires every match settled and ranks by wins,
// then games won, then total point difference, lowest team id last.
func roundRobinChampion(matches []*models.BracketMatch) *int {
	type tally struct {
		teamID    int
		wins      int
		gamesWon  int
		pointDiff int
	}
	totals := make(map[int]*tally)
	ensure := func(teamID int) *tally {
		if totals[teamID] == nil {
			totals[teamID] = &tally{teamID: teamID}
		}
		return totals[teamID]
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCancelled {
			return nil
		}
		if m.Status != models.MatchStatusCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		t1, t2 := ensure(*m.Team1ID), ensure(*m.Team2ID)
		t1.gamesWon += m.Score.Team1GamesWon
		t2.gamesWon += m.Score.Team2GamesWon
		for _, g := range m.Score.Games {
			t1.pointDiff += g.Team1 - g.Team2
			t2.pointDiff += g.Team2 - g.Team1
		}
		if m.WinnerID != nil && *m.WinnerID == *m.Team1ID {
			t1.wins++
		} else if m.WinnerID != nil {
			t2.wins++
		}
	}

	var best *tally
	for _, t := range totals {
		if best == nil {
			best = t
			continue
		}
		switch {
		case t.wins != best.wins:
			if t.wins > best.wins {
				best = t
			}
		case t.gamesWon != best.gamesWon:
			if t.gamesWon > best.gamesWon {
				best = t
			}
		case t.pointDiff != best.pointDiff:
			if t.pointDiff > best.pointDiff {
				best = t
			}
		case t.teamID < best.teamID:
			best = t
		}
	}
	if best == nil {
		return nil
	}
	return &best.teamID
}

func (s *advancementService) archiveBracketSnapshot(ctx context.Context, tournamentID int) {
	if s.uploader == nil {
		return
	}

	bracket, err := s.bracketSvc.GetBracket(ctx, tournamentID)
	if err != nil {
		s.logger.Error("failed to load bracket for snapshot",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	payload, err := json.Marshal(bracket)
	if err != nil {
		s.logger.Error("failed to marshal bracket snapshot",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("tournaments/%d/bracket.json", tournamentID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		s.logger.Error("failed to archive bracket snapshot",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.logger.Info("bracket snapshot archived",
		slog.Int("tournament_id", tournamentID),
		slog.String("location", result.Location))
}

func (s *advancementService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *advancementService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
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
