// Package repository groups the per-entity access objects over one storage
// gateway. Sessions take a Repository at construction; there is no ambient
// global state.
package repository

import (
	"context"
	"fmt"

	"sharecal/internal/models"
	"sharecal/internal/storage"
)

// Repository exposes one access object per entity type. All three are
// typically backed by the same *sqlite.Storage.
type Repository struct {
	Users     storage.UserStore
	Calendars storage.CalendarStore
	Events    storage.EventStore
}

// New builds a Repository from the per-entity stores
func New(users storage.UserStore, calendars storage.CalendarStore, events storage.EventStore) *Repository {
	return &Repository{
		Users:     users,
		Calendars: calendars,
		Events:    events,
	}
}

// NewAccount creates a user row and its calendar in order. Signup always
// creates both; a user without a calendar never exists past this call.
// Each insert commits on its own, so a crash between the two leaves a user
// without a calendar (see the known consistency limitation in DESIGN.md).
func (r *Repository) NewAccount(ctx context.Context, user *models.User) (*models.Calendar, error) {
	userID, err := r.Users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	calendarID, err := r.Calendars.CreateCalendar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar for user %d: %w", userID, err)
	}

	return &models.Calendar{ID: calendarID, UserID: userID}, nil
}
