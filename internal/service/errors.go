package service

import "errors"

// Authorization failures
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotImposter        = errors.New("only imposters can kill")
	ErrForbidden          = errors.New("you are not allowed to do that")
	ErrVoterDead          = errors.New("dead players cannot vote")
)

// Precondition failures
var (
	ErrMeetingActive         = errors.New("kills are restricted during an emergency meeting")
	ErrKillCooldown          = errors.New("kill is on cooldown")
	ErrNoLocation            = errors.New("no location reported yet")
	ErrNoTargetInRange       = errors.New("no crewmates in range")
	ErrTargetNotCrewmate     = errors.New("target must be a crewmate")
	ErrTargetAlreadyDead     = errors.New("target was already eliminated")
	ErrTaskNotAssigned       = errors.New("task is not assigned to you")
	ErrHintUnavailable       = errors.New("no hint available for this task")
	ErrNoTasksInPool         = errors.New("task pool is empty")
	ErrNoCrewmates           = errors.New("no crewmates to convert")
	ErrInvalidCount          = errors.New("count must be greater than 0")
	ErrInvalidTasksPerPlayer = errors.New("tasksPerPlayer must be at least 1")
	ErrNoMeeting             = errors.New("no emergency meeting is active")
	ErrMeetingAlreadyActive  = errors.New("an emergency meeting is already active")
	ErrInvalidVoteTarget     = errors.New("vote target must be an alive player")
	ErrInvalidUsername       = errors.New("username must be 3 to 32 characters")
	ErrInvalidPassword       = errors.New("password must be at least 6 characters")
	ErrReservedUsername      = errors.New("username is reserved")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrInvalidCoordinates    = errors.New("invalid coordinates")
	ErrInvalidTask           = errors.New("question and answer are required")
)

// Not-found failures
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTargetNotFound = errors.New("target not found")
	ErrTaskNotFound   = errors.New("task not found")
)

// ErrorKind groups service errors for the boundary layer
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthenticated
	KindForbidden
	KindInvalid
	KindConflict
	KindNotFound
)

var kinds = map[error]ErrorKind{
	ErrInvalidCredentials: KindUnauthenticated,
	ErrInvalidToken:       KindUnauthenticated,

	ErrNotImposter: KindForbidden,
	ErrForbidden:   KindForbidden,
	ErrVoterDead:   KindForbidden,

	ErrInvalidCount:          KindInvalid,
	ErrInvalidTasksPerPlayer: KindInvalid,
	ErrInvalidUsername:       KindInvalid,
	ErrInvalidPassword:       KindInvalid,
	ErrReservedUsername:      KindInvalid,
	ErrInvalidCoordinates:    KindInvalid,
	ErrInvalidTask:           KindInvalid,
	ErrInvalidVoteTarget:     KindInvalid,
	ErrTargetNotCrewmate:     KindInvalid,
	ErrTaskNotAssigned:       KindInvalid,
	ErrNoLocation:            KindInvalid,
	ErrNoTargetInRange:       KindInvalid,

	ErrMeetingActive:        KindConflict,
	ErrKillCooldown:         KindConflict,
	ErrTargetAlreadyDead:    KindConflict,
	ErrNoTasksInPool:        KindConflict,
	ErrNoCrewmates:          KindConflict,
	ErrNoMeeting:            KindConflict,
	ErrMeetingAlreadyActive: KindConflict,
	ErrUsernameTaken:        KindConflict,

	ErrPlayerNotFound:  KindNotFound,
	ErrTargetNotFound:  KindNotFound,
	ErrTaskNotFound:    KindNotFound,
	ErrHintUnavailable: KindNotFound,
}

// KindOf reports the kind of err. Anything not raised by this package is
// a store failure.
func KindOf(err error) ErrorKind {
	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}
