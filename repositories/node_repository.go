package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
)

var (
	ErrNodeNotFound  = errors.New("bracket node not found")
	ErrNodeConflict  = errors.New("bracket node already exists at this position")
	ErrNodeRefBroken = errors.New("bracket node references an unknown row")
)

type BracketNodeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, node *models.BracketNode) error
	GetByID(ctx context.Context, id int) (*models.BracketNode, error)
	GetByMatchID(ctx context.Context, matchID int) (*models.BracketNode, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.BracketNode, error)
	MaxRound(ctx context.Context, tournamentID int, bracketType models.BracketType) (int, error)
	HasBracketType(ctx context.Context, tournamentID int, bracketType models.BracketType) (bool, error)
	UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextNodeID, loserNextNodeID *int) error
	SetMatchID(ctx context.Context, exec SQLExecutor, id int, matchID int) error
	SetByeTeam(ctx context.Context, exec SQLExecutor, id int, teamID int) error
}

type postgresBracketNodeRepository struct {
	db *sql.DB
}

func NewPostgresBracketNodeRepository(db *sql.DB) BracketNodeRepository {
	return &postgresBracketNodeRepository{db: db}
}

const nodeColumns = `id, tournament_id, bracket_type, round, position, match_id, bye_team_id,
	next_node_id, loser_next_node_id, pending_bye, created_at`

func (r *postgresBracketNodeRepository) Create(ctx context.Context, exec SQLExecutor, node *models.BracketNode) error {
	query := `
		INSERT INTO bracket_nodes
			(tournament_id, bracket_type, round, position, match_id, bye_team_id,
			 next_node_id, loser_next_node_id, pending_bye)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		node.TournamentID,
		node.BracketType,
		node.Round,
		node.Position,
		node.MatchID,
		node.ByeTeamID,
		node.NextNodeID,
		node.LoserNextNodeID,
		node.PendingBye,
	).Scan(&node.ID, &node.CreatedAt)

	return r.handleNodeError(err)
}

func (r *postgresBracketNodeRepository) GetByID(ctx context.Context, id int) (*models.BracketNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM bracket_nodes WHERE id = $1`
	return r.scanNode(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresBracketNodeRepository) GetByMatchID(ctx context.Context, matchID int) (*models.BracketNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM bracket_nodes WHERE match_id = $1`
	return r.scanNode(r.db.QueryRowContext(ctx, query, matchID))
}

func (r *postgresBracketNodeRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.BracketNode, error) {
	query := `SELECT ` + nodeColumns + `
		FROM bracket_nodes
		WHERE tournament_id = $1
		ORDER BY bracket_type ASC, round ASC, position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket nodes for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	nodes := make([]*models.BracketNode, 0)
	for rows.Next() {
		node, scanErr := r.scanNodeRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		nodes = append(nodes, node)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket node rows iteration: %w", err)
	}
	return nodes, nil
}

func (r *postgresBracketNodeRepository) MaxRound(ctx context.Context, tournamentID int, bracketType models.BracketType) (int, error) {
	query := `SELECT COALESCE(MAX(round), 0) FROM bracket_nodes WHERE tournament_id = $1 AND bracket_type = $2`
	var maxRound int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, bracketType).Scan(&maxRound); err != nil {
		return 0, fmt.Errorf("failed to query max round for tournament %d: %w", tournamentID, err)
	}
	return maxRound, nil
}

func (r *postgresBracketNodeRepository) HasBracketType(ctx context.Context, tournamentID int, bracketType models.BracketType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bracket_nodes WHERE tournament_id = $1 AND bracket_type = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, bracketType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query bracket type existence for tournament %d: %w", tournamentID, err)
	}
	return exists, nil
}

func (r *postgresBracketNodeRepository) UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextNodeID, loserNextNodeID *int) error {
	query := `UPDATE bracket_nodes SET next_node_id = $1, loser_next_node_id = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, nextNodeID, loserNextNodeID, id)
	if err != nil {
		return fmt.Errorf("failed to update links for bracket node %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNodeNotFound)
}

func (r *postgresBracketNodeRepository) SetMatchID(ctx context.Context, exec SQLExecutor, id int, matchID int) error {
	query := `UPDATE bracket_nodes SET match_id = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, matchID, id)
	if err != nil {
		return fmt.Errorf("failed to set match for bracket node %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNodeNotFound)
}

func (r *postgresBracketNodeRepository) SetByeTeam(ctx context.Context, exec SQLExecutor, id int, teamID int) error {
	query := `UPDATE bracket_nodes SET bye_team_id = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to set bye team for bracket node %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNodeNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresBracketNodeRepository) scanNode(row *sql.Row) (*models.BracketNode, error) {
	node, err := r.scanNodeRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}
	return node, nil
}

func (r *postgresBracketNodeRepository) scanNodeRow(row rowScanner) (*models.BracketNode, error) {
	node := &models.BracketNode{}
	err := row.Scan(
		&node.ID,
		&node.TournamentID,
		&node.BracketType,
		&node.Round,
		&node.Position,
		&node.MatchID,
		&node.ByeTeamID,
		&node.NextNodeID,
		&node.LoserNextNodeID,
		&node.PendingBye,
		&node.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan bracket node row: %w", err)
	}
	return node, nil
}

func (r *postgresBracketNodeRepository) handleNodeError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "bracket_nodes_tournament_type_round_position_key":
			return ErrNodeConflict
		case "bracket_nodes_match_id_fkey", "bracket_nodes_bye_team_id_fkey",
			"bracket_nodes_next_node_id_fkey", "bracket_nodes_loser_next_node_id_fkey":
			return ErrNodeRefBroken
		}
	}
	return err
}
