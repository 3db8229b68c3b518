package handlers

import (
	"net/http"

	"github.com/suryaKurella/badminton-tournament-software-sub001/services"
)

type BracketHandler struct {
	bracketService   services.BracketService
	standingsService services.StandingsService
}

func NewBracketHandler(bracketService services.BracketService, standingsService services.StandingsService) *BracketHandler {
	return &BracketHandler{
		bracketService:   bracketService,
		standingsService: standingsService,
	}
}

// GenerateBracket godoc
// @Summary      Generate the tournament bracket
// @Description  Seeds the teams and materializes the competition graph for the tournament's format.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      201  {object}  models.TournamentBracket
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GenerateBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, bracket, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary      Get the tournament bracket
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {object}  models.TournamentBracket
// @Failure      404  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bracket, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteGroupStage godoc
// @Summary      Close the group stage and build the knockout draw
// @Description  Requires every group match to be completed. Qualifiers are ranked per group and interleaved into the knockout bracket.
// @Tags         brackets
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      201  {object}  models.GroupStageResult
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /tournaments/{tournamentID}/group-stage/complete [post]
func (h *BracketHandler) CompleteGroupStage(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.CompleteGroupStage(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroupStandings godoc
// @Summary      Get the ranked group tables
// @Tags         standings
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {object}  map[string][]models.GroupStanding
// @Router       /tournaments/{tournamentID}/standings [get]
func (h *BracketHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetGroupStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLeaderboard godoc
// @Summary      Get the tournament-wide leaderboard
// @Tags         standings
// @Produce      json
// @Param        tournamentID  path  int  true  "Tournament ID"
// @Success      200  {object}  map[string][]models.LeaderboardEntry
// @Router       /tournaments/{tournamentID}/leaderboard [get]
func (h *BracketHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.standingsService.GetLeaderboard(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
