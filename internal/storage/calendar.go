package storage

import (
	"context"

	"sharecal/internal/models"
)

// CalendarStore defines the interface for calendar persistence
type CalendarStore interface {
	// CreateCalendar inserts a calendar owned by userID and returns the
	// generated id. Every user owns exactly one calendar.
	CreateCalendar(ctx context.Context, userID int64) (int64, error)

	// GetCalendarByID retrieves a calendar by id
	// Returns ErrCalendarNotFound if the calendar doesn't exist
	GetCalendarByID(ctx context.Context, calendarID int64) (*models.Calendar, error)

	// GetCalendarByUserID retrieves the calendar owned by userID
	// Returns ErrCalendarNotFound if the user has no calendar
	GetCalendarByUserID(ctx context.Context, userID int64) (*models.Calendar, error)

	// GetCalendarByShareURL retrieves a calendar by its share token
	// Returns ErrCalendarNotFound for an unknown token
	GetCalendarByShareURL(ctx context.Context, token string) (*models.Calendar, error)

	// UpdateShareURL sets or clears (nil) the calendar's share token.
	// Returns ErrShareTokenTaken if another calendar already uses the token,
	// ErrCalendarNotFound if the calendar doesn't exist.
	UpdateShareURL(ctx context.Context, calendarID int64, token *string) error

	// DeleteCalendar deletes a calendar row by id
	// Returns ErrCalendarNotFound if the calendar doesn't exist
	DeleteCalendar(ctx context.Context, calendarID int64) error
}
