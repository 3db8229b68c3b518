package services

import "errors"

// Shared service-level errors, grouped by taxonomy. Handlers map them to
// HTTP statuses: precondition and validation failures reject with 400,
// missing references with 404, state conflicts with 409. Best-effort side
// effects never surface through these; their failures are only logged.
var (
	// Precondition violations: rejected before any mutation is attempted.
	ErrBracketAlreadyGenerated  = errors.New("bracket has already been generated for this tournament")
	ErrKnockoutAlreadyGenerated = errors.New("knockout phase has already been generated for this tournament")
	ErrBracketNotGenerated      = errors.New("bracket has not been generated for this tournament")
	ErrNotEnoughTeams           = errors.New("not enough teams to generate a bracket (minimum 2 required)")
	ErrWrongFormat              = errors.New("operation is not valid for this tournament format")
	ErrGroupStageIncomplete     = errors.New("group stage is not complete: unfinished group matches remain")
	ErrMatchMissingTeams        = errors.New("match does not have both team slots filled")

	// Invalid references.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrNodeNotFound       = errors.New("bracket node not found for match")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNotInMatch     = errors.New("team is not a participant of this match")

	// State conflicts: the referenced rows exist but are in the wrong
	// lifecycle state for the request.
	ErrMatchNotLive       = errors.New("match is not live")
	ErrMatchNotCompleted  = errors.New("match is not completed")
	ErrMatchFinished      = errors.New("match is already completed or cancelled")
	ErrMatchSlotsOccupied = errors.New("both slots of the next match are already taken")
	ErrNothingToUndo      = errors.New("no undoable events in the match log")
)
