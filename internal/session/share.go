package session

import (
	"context"

	"sharecal/internal/models"
	"sharecal/internal/repository"
	"sharecal/internal/storage"
)

// ShareSession is read-only access to a calendar through its share token.
// Private events are filtered out at load time and never leave storage; there
// are no mutating operations.
type ShareSession struct {
	calendar *models.Calendar
	events   []*models.Event
}

// OpenShare resolves a share token to its calendar and loads the calendar's
// public events. An absent or unknown token returns storage.ErrCalendarNotFound.
func OpenShare(ctx context.Context, repo *repository.Repository, token string) (*ShareSession, error) {
	calendar, err := repo.Calendars.GetCalendarByShareURL(ctx, token)
	if err != nil {
		return nil, err
	}

	events, err := repo.Events.ListEventsByCalendar(ctx, calendar.ID, &storage.ListFilter{ExcludePrivate: true})
	if err != nil {
		return nil, err
	}

	return &ShareSession{
		calendar: calendar,
		events:   events,
	}, nil
}

// Calendar returns the shared calendar
func (s *ShareSession) Calendar() *models.Calendar {
	return s.calendar
}

// Events returns all public events of the shared calendar
func (s *ShareSession) Events() []*models.Event {
	return s.events
}

// MonthEvents returns the public events falling in the given month
func (s *ShareSession) MonthEvents(month int) []*models.Event {
	var out []*models.Event
	for _, e := range s.events {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out
}
