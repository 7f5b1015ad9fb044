// Package session implements the authenticated calendar session: login,
// the in-memory event cache, share-link rotation and account deletion.
// A Session delegates every storage operation to the Repository it was
// constructed with.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"sharecal/internal/crypto"
	"sharecal/internal/models"
	"sharecal/internal/repository"
	"sharecal/internal/storage"
	"sharecal/internal/validation"
)

type state int

const (
	stateUnauthenticated state = iota
	stateAuthenticated
	stateClosed
)

// Session is a stateful handle on one user's calendar. It moves from
// unauthenticated to authenticated on Login or Register, and to closed on
// DeleteAccount; a closed session rejects everything.
//
// Sessions are not safe for concurrent use. Two sessions over the same
// calendar rely entirely on SQLite's own locking: share-token rotation is
// last-write-wins and differential updates computed against stale state can
// lose a concurrent write. Accepted limitation of the single-writer design.
type Session struct {
	repo     *repository.Repository
	state    state
	user     *models.User
	calendar *models.Calendar
	events   []*models.Event
}

// New creates an unauthenticated session over the repository
func New(repo *repository.Repository) *Session {
	return &Session{
		repo:  repo,
		state: stateUnauthenticated,
	}
}

// guard rejects operations in states other than want.
func (s *Session) guard(want state) error {
	switch {
	case s.state == stateClosed:
		return ErrSessionClosed
	case want == stateAuthenticated && s.state != stateAuthenticated:
		return ErrNotAuthenticated
	case want == stateUnauthenticated && s.state == stateAuthenticated:
		return ErrAlreadyAuthenticated
	}
	return nil
}

// Register creates a new account (user plus calendar) and leaves the session
// authenticated as the new user.
func (s *Session) Register(ctx context.Context, username, password string, email *string) error {
	if err := s.guard(stateUnauthenticated); err != nil {
		return err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}

	calendar, err := s.repo.NewAccount(ctx, user)
	if err != nil {
		return err
	}

	s.user = user
	s.calendar = calendar
	s.events = nil
	s.state = stateAuthenticated

	return nil
}

// Login authenticates with username and password, then loads the user's
// calendar and full event list. An unknown username surfaces
// storage.ErrUserNotFound; a wrong password surfaces ErrInvalidCredentials.
// On any failure the session state is untouched.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.guard(stateUnauthenticated); err != nil {
		return err
	}

	user, err := s.repo.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	calendar, err := s.repo.Calendars.GetCalendarByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	events, err := s.repo.Events.ListEventsByCalendar(ctx, calendar.ID, nil)
	if err != nil {
		return err
	}

	s.user = user
	s.calendar = calendar
	s.events = events
	s.state = stateAuthenticated

	return nil
}

// User returns the authenticated user, nil before login
func (s *Session) User() *models.User {
	return s.user
}

// Calendar returns the authenticated user's calendar, nil before login
func (s *Session) Calendar() *models.Calendar {
	return s.calendar
}

// Events returns the cached event list, ordered by month, day, id
func (s *Session) Events() []*models.Event {
	return s.events
}

// MonthEvents returns the cached events falling in the given month
func (s *Session) MonthEvents(month int) []*models.Event {
	var out []*models.Event
	for _, e := range s.events {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out
}

// reloadEvents replaces the cache with all storage-visible rows. Reloading
// after every mutation keeps the cache honest even if another writer touched
// the calendar in between.
func (s *Session) reloadEvents(ctx context.Context) error {
	events, err := s.repo.Events.ListEventsByCalendar(ctx, s.calendar.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to reload events: %w", err)
	}
	s.events = events
	return nil
}

// NewEvent inserts an event on the session's calendar and reloads the cache.
// Returns the created event as loaded from storage.
func (s *Session) NewEvent(ctx context.Context, title string, month, day int, year *int, notes *string, private bool) (*models.Event, error) {
	if err := s.guard(stateAuthenticated); err != nil {
		return nil, err
	}
	if err := validation.ValidateEventDate(month, day); err != nil {
		return nil, err
	}

	event := &models.Event{
		CalendarID: s.calendar.ID,
		Title:      title,
		Month:      month,
		Day:        day,
		Year:       year,
		Notes:      notes,
		Private:    private,
	}

	id, err := s.repo.Events.InsertEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	if err := s.reloadEvents(ctx); err != nil {
		return nil, err
	}

	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}

	// Inserted but gone on reload: another writer deleted it already.
	return nil, storage.ErrEventNotFound
}

// SyncEventChanges persists the event's changed fields (differential update)
// and reloads the cache.
func (s *Session) SyncEventChanges(ctx context.Context, event *models.Event) error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}
	if err := validation.ValidateEventDate(event.Month, event.Day); err != nil {
		return err
	}

	if err := s.repo.Events.UpdateEvent(ctx, event); err != nil {
		return err
	}

	return s.reloadEvents(ctx)
}

// RemoveEvent deletes the event row and drops the same instance from the
// cache. The instance must come from this session's cache (identity match);
// otherwise ErrEventNotCached is returned and nothing is deleted.
func (s *Session) RemoveEvent(ctx context.Context, event *models.Event) error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}

	idx := -1
	for i, e := range s.events {
		if e == event {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEventNotCached
	}

	if err := s.repo.Events.DeleteEvent(ctx, event.ID); err != nil {
		return err
	}

	s.events = append(s.events[:idx], s.events[idx+1:]...)
	return nil
}

// NewShareURL generates a random share token and persists it on the calendar,
// regenerating on collision. Attempts are capped; past the cap the storage
// error surfaces instead of looping forever.
func (s *Session) NewShareURL(ctx context.Context) (string, error) {
	if err := s.guard(stateAuthenticated); err != nil {
		return "", err
	}

	var token string

	backoff := retry.WithMaxRetries(maxShareTokenAttempts, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, err := generateShareToken(ShareTokenLength)
		if err != nil {
			return err
		}

		if err := s.repo.Calendars.UpdateShareURL(ctx, s.calendar.ID, &t); err != nil {
			if errors.Is(err, storage.ErrShareTokenTaken) {
				return retry.RetryableError(err)
			}
			return err
		}

		token = t
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist a unique share token: %w", err)
	}

	s.calendar.ShareURL = &token
	return token, nil
}

// RemoveShareURL clears the calendar's share token; the old link stops
// resolving immediately.
func (s *Session) RemoveShareURL(ctx context.Context) error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}

	if err := s.repo.Calendars.UpdateShareURL(ctx, s.calendar.ID, nil); err != nil {
		return err
	}

	s.calendar.ShareURL = nil
	return nil
}

// ChangePassword verifies the current password and replaces the stored hash
func (s *Session) ChangePassword(ctx context.Context, current, updated string) error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}

	if !crypto.VerifyPassword(current, s.user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := validation.ValidatePassword(updated); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	hash, err := crypto.HashPassword(updated)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.Users.UpdatePassword(ctx, s.user.ID, hash); err != nil {
		return err
	}

	s.user.PasswordHash = hash
	return nil
}

// DeleteAccount removes the account: all events, then the calendar, then the
// user, in that order. Without confirm it is a no-op. On success the session
// is closed and rejects all further operations.
//
// Each delete commits on its own; a failure mid-cascade leaves partial state
// (events gone, calendar and user still present, or calendar gone with the
// user left). Known gap of the autocommit gateway.
func (s *Session) DeleteAccount(ctx context.Context, confirm bool) error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	if _, err := s.repo.Events.DeleteEventsByCalendar(ctx, s.calendar.ID); err != nil {
		return err
	}
	if err := s.repo.Calendars.DeleteCalendar(ctx, s.calendar.ID); err != nil {
		return err
	}
	if err := s.repo.Users.DeleteUser(ctx, s.user.ID); err != nil {
		return err
	}

	s.user = nil
	s.calendar = nil
	s.events = nil
	s.state = stateClosed

	return nil
}
