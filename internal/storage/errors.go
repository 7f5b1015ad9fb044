package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates that a user with this username already exists
	ErrUserExists = errors.New("user already exists")

	// ErrCalendarNotFound indicates that the calendar was not found
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrEventNotFound indicates that the event was not found
	ErrEventNotFound = errors.New("event not found")

	// ErrShareTokenTaken indicates that the share token is already in use by
	// another calendar; the caller may regenerate and retry
	ErrShareTokenTaken = errors.New("share token already in use")
)
