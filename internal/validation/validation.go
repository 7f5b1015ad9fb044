package validation

import (
	"fmt"
	"regexp"
)

// UsernamePattern defines the accepted username format:
// latin letters, digits and underscore, 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32
)

// ValidateUsername checks that username matches the accepted format.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	const minPasswordLen = 8

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// ValidateEventDate checks the month and day ranges. The day is not checked
// against the month or year; 2/31 is accepted, matching storage semantics.
func ValidateEventDate(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}

	if day < 1 || day > 31 {
		return fmt.Errorf("day must be between 1 and 31, got %d", day)
	}

	return nil
}
