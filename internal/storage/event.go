package storage

import (
	"context"

	"sharecal/internal/models"
)

// ListFilter narrows ListEventsByCalendar results.
type ListFilter struct {
	// ExcludePrivate drops events with the privacy flag set; used by
	// share-link access.
	ExcludePrivate bool
}

// EventStore defines the interface for event persistence
type EventStore interface {
	// InsertEvent inserts a new event and returns the generated id
	InsertEvent(ctx context.Context, event *models.Event) (int64, error)

	// GetEventByID retrieves an event by id
	// Returns ErrEventNotFound if the event doesn't exist
	GetEventByID(ctx context.Context, eventID int64) (*models.Event, error)

	// ListEventsByCalendar returns the calendar's events ordered by month,
	// day, id. A nil filter returns everything.
	ListEventsByCalendar(ctx context.Context, calendarID int64, filter *ListFilter) ([]*models.Event, error)

	// UpdateEvent persists only the fields whose in-memory value differs
	// from the stored row (differential update). Writing no columns is a
	// successful no-op. Returns ErrEventNotFound if the row is gone.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent deletes one event row by id
	// Returns ErrEventNotFound if the event doesn't exist
	DeleteEvent(ctx context.Context, eventID int64) error

	// DeleteEventsByCalendar deletes all events owned by the calendar and
	// returns the number of rows removed. Used by the account cascade.
	DeleteEventsByCalendar(ctx context.Context, calendarID int64) (int, error)
}
