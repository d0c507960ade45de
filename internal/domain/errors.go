package domain

import "errors"

var (
	// ErrDuplicateSession is returned when a session id is already taken.
	ErrDuplicateSession = errors.New("session already exists")
	// ErrUnknownSession is returned when an answer references a session that does not exist.
	ErrUnknownSession = errors.New("unknown session")
	// ErrMissingSession is returned when a request carries no session id.
	ErrMissingSession = errors.New("session_id is required")
	// ErrSessionNotFound is returned when a looked-up session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInterviewIncomplete is returned when feedback is requested before all answers are recorded.
	ErrInterviewIncomplete = errors.New("interview incomplete")
)

// ErrInvalidStep is returned when a turn carries a negative step.
var ErrInvalidStep = errors.New("invalid step")
