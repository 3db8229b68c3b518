package handlers

import (
	"errors"
	"net/http"

	"github.com/suryaKurella/badminton-tournament-software-sub001/models"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
	"github.com/suryaKurella/badminton-tournament-software-sub001/services"
)

type MatchHandler struct {
	scoringService     services.ScoringService
	advancementService services.AdvancementService
	matchRepo          repositories.MatchRepository
}

func NewMatchHandler(
	scoringService services.ScoringService,
	advancementService services.AdvancementService,
	matchRepo repositories.MatchRepository,
) *MatchHandler {
	return &MatchHandler{
		scoringService:     scoringService,
		advancementService: advancementService,
		matchRepo:          matchRepo,
	}
}

// ListMatches godoc
// @Summary      List a tournament's matches
// @Tags         matches
// @Produce      json
// @Param        tournamentID  path   int     true   "Tournament ID"
// @Param        status        query  string  false  "Filter by match status"
// @Success      200  {object}  map[string][]models.Match
// @Router       /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		switch s {
		case models.MatchStatusUpcoming, models.MatchStatusLive,
			models.MatchStatusCompleted, models.MatchStatusCancelled:
			status = &s
		default:
			badRequestResponse(w, r, errors.New("invalid status filter"))
			return
		}
	}

	matches, err := h.matchRepo.ListByTournament(r.Context(), tournamentID, status)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartMatch godoc
// @Summary      Start a match
// @Tags         scoring
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {object}  models.Match
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoringService.StartMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type recordPointRequest struct {
	ScoringTeamID int `json:"scoring_team_id"`
}

// RecordPoint godoc
// @Summary      Score one rally
// @Description  Applies a point for the given team. Scoring an upcoming match starts it implicitly; the deciding rally completes the match and advances the winner.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                 true  "Match ID"
// @Param        body     body  recordPointRequest  true  "Scoring team"
// @Success      200  {object}  services.PointResult
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID}/points [post]
func (h *MatchHandler) RecordPoint(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req recordPointRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoringService.RecordPoint(r.Context(), matchID, req.ScoringTeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoLastPoint godoc
// @Summary      Undo the last rally
// @Description  Truncates the trailing rows of the match's event log, reopening the game or the match if the rally had closed one.
// @Tags         scoring
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {object}  models.Match
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID}/points/undo [post]
func (h *MatchHandler) UndoLastPoint(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoringService.UndoLastPoint(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type recordBreakRequest struct {
	Type string `json:"type"`
}

// RecordBreak godoc
// @Summary      Log a play interruption
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        matchID  path  int                 true  "Match ID"
// @Param        body     body  recordBreakRequest  true  "TIMEOUT or INJURY_BREAK"
// @Success      201  {object}  models.MatchEvent
// @Failure      400  {object}  map[string]string
// @Router       /matches/{matchID}/breaks [post]
func (h *MatchHandler) RecordBreak(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req recordBreakRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	breakType := models.MatchEventType(req.Type)
	if !breakType.IsBreak() {
		badRequestResponse(w, r, errors.New("type must be TIMEOUT or INJURY_BREAK"))
		return
	}

	event, err := h.scoringService.RecordBreak(r.Context(), matchID, breakType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelMatch godoc
// @Summary      Cancel a match
// @Tags         scoring
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {object}  models.Match
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID}/cancel [post]
func (h *MatchHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scoringService.CancelMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type walkoverRequest struct {
	WinnerTeamID int    `json:"winner_team_id"`
	Reason       string `json:"reason"`
}

// CompleteByWalkover godoc
// @Summary      Complete a match by walkover
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID  path  int              true  "Match ID"
// @Param        body     body  walkoverRequest  true  "Winner and reason"
// @Success      200  {object}  models.Match
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /matches/{matchID}/walkover [post]
func (h *MatchHandler) CompleteByWalkover(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req walkoverRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.advancementService.CompleteMatchByWalkover(r.Context(), matchID, req.WinnerTeamID, req.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceWinner godoc
// @Summary      Re-run advancement for a completed match
// @Description  Routes the winner (and loser, where applicable) to the linked follow-up nodes. Safe to repeat.
// @Tags         matches
// @Param        matchID  path  int  true  "Match ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /matches/{matchID}/advance [post]
func (h *MatchHandler) AdvanceWinner(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.advancementService.AdvanceWinner(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents godoc
// @Summary      List a match's event trail with its projected score
// @Tags         scoring
// @Produce      json
// @Param        matchID  path  int  true  "Match ID"
// @Success      200  {object}  services.EventTrail
// @Failure      404  {object}  map[string]string
// @Router       /matches/{matchID}/events [get]
func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trail, err := h.scoringService.ListEvents(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, trail, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
