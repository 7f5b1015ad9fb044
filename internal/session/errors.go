package session

import "errors"

// Session operation errors
var (
	// ErrInvalidCredentials indicates that the password did not match the
	// stored hash; the session stays unauthenticated
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated indicates an operation that requires a successful
	// login first
	ErrNotAuthenticated = errors.New("session is not authenticated")

	// ErrAlreadyAuthenticated indicates a second login on a live session
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")

	// ErrSessionClosed indicates an operation on a session whose account
	// was deleted; no further operations are valid
	ErrSessionClosed = errors.New("session is closed")

	// ErrEventNotCached indicates that the event instance is not part of
	// this session's event cache
	ErrEventNotCached = errors.New("event is not in the session cache")
)
