package persist

import "errors"

var (
	// ErrSessionNotFound is returned when a session directory or file does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLocked is returned when another process holds the session lock.
	ErrSessionLocked = errors.New("session is locked by another run")
	// ErrInvalidSessionID is returned for ids that are not a single path element.
	ErrInvalidSessionID = errors.New("invalid session id")
	// ErrInvalidOutputPath is returned for output paths escaping the output directory.
	ErrInvalidOutputPath = errors.New("invalid output path")
)
