package quiz

import "errors"

// Command errors returned to callers. None of these are fatal to the
// process; the HTTP layer maps them to status codes.
var (
	ErrInvalidName         = errors.New("invalid team name")
	ErrTeamNotFound        = errors.New("team not found")
	ErrNotOnTeam           = errors.New("player is not on a team")
	ErrTeamChangeForbidden = errors.New("cannot change team while a match is in progress")
	ErrAlreadyGuessed      = errors.New("team already made a guess")
	ErrNotAParticipant     = errors.New("team is not a participant for this question")
	ErrWrongPhase          = errors.New("command not allowed in the current phase")
	ErrNoActiveQuestion    = errors.New("there is no active question")
	ErrNoPollRecorded      = errors.New("no vote poll was posted")
	ErrPreloadFailed       = errors.New("could not preload question media")
)
