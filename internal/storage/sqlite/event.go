package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sharecal/internal/models"
	"sharecal/internal/storage"
)

// InsertEvent inserts a new event and returns the generated event_id
func (s *Storage) InsertEvent(ctx context.Context, event *models.Event) (int64, error) {
	query := `
		INSERT INTO events (calendar_id, title, month, day, year, notes, private)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		event.CalendarID,
		event.Title,
		event.Month,
		event.Day,
		event.Year,
		event.Notes,
		boolToInt(event.Private),
	)

	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted event id: %w", err)
	}

	event.ID = id
	return id, nil
}

// GetEventByID retrieves an event by id
func (s *Storage) GetEventByID(ctx context.Context, eventID int64) (*models.Event, error) {
	query := `
		SELECT event_id, calendar_id, title, month, day, year, notes, private
		FROM events
		WHERE event_id = ?
	`

	row := s.db.QueryRowContext(ctx, query, eventID)

	event, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// ListEventsByCalendar returns the calendar's events ordered by month, day, id.
// With filter.ExcludePrivate only public events are returned.
func (s *Storage) ListEventsByCalendar(ctx context.Context, calendarID int64, filter *storage.ListFilter) ([]*models.Event, error) {
	query := `
		SELECT event_id, calendar_id, title, month, day, year, notes, private
		FROM events
		WHERE calendar_id = ?
	`
	if filter != nil && filter.ExcludePrivate {
		query += ` AND private = 0`
	}
	query += ` ORDER BY month, day, event_id`

	rows, err := s.db.QueryContext(ctx, query, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []*models.Event

	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}

// scanEvent scans one events row via the provided Scan function, converting
// nullable columns and the 0/1 privacy flag.
func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	event := &models.Event{}
	var (
		year    sql.NullInt64
		notes   sql.NullString
		private int
	)

	err := scan(
		&event.ID,
		&event.CalendarID,
		&event.Title,
		&event.Month,
		&event.Day,
		&year,
		&notes,
		&private,
	)
	if err != nil {
		return nil, err
	}

	if year.Valid {
		y := int(year.Int64)
		event.Year = &y
	}
	if notes.Valid {
		event.Notes = &notes.String
	}
	event.Private = private != 0

	return event, nil
}

// UpdateEvent persists only the fields whose in-memory value differs from the
// stored row. The diff is computed against what storage holds right now, so a
// field changed back to its persisted value produces no write; a field changed
// to nil is still written.
func (s *Storage) UpdateEvent(ctx context.Context, event *models.Event) error {
	persisted, err := s.GetEventByID(ctx, event.ID)
	if err != nil {
		return err
	}

	var (
		columns []string
		args    []any
	)

	if event.Title != persisted.Title {
		columns = append(columns, "title = ?")
		args = append(args, event.Title)
	}
	if event.Month != persisted.Month {
		columns = append(columns, "month = ?")
		args = append(args, event.Month)
	}
	if event.Day != persisted.Day {
		columns = append(columns, "day = ?")
		args = append(args, event.Day)
	}
	if !intPtrEqual(event.Year, persisted.Year) {
		columns = append(columns, "year = ?")
		args = append(args, event.Year)
	}
	if !strPtrEqual(event.Notes, persisted.Notes) {
		columns = append(columns, "notes = ?")
		args = append(args, event.Notes)
	}
	if event.Private != persisted.Private {
		columns = append(columns, "private = ?")
		args = append(args, boolToInt(event.Private))
	}

	if len(columns) == 0 {
		return nil
	}

	query := "UPDATE events SET " + strings.Join(columns, ", ") + " WHERE event_id = ?"
	args = append(args, event.ID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

// DeleteEvent deletes one event row by id
func (s *Storage) DeleteEvent(ctx context.Context, eventID int64) error {
	query := `DELETE FROM events WHERE event_id = ?`

	result, err := s.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

// DeleteEventsByCalendar deletes all events owned by the calendar and returns
// the number of rows removed
func (s *Storage) DeleteEventsByCalendar(ctx context.Context, calendarID int64) (int, error) {
	query := `DELETE FROM events WHERE calendar_id = ?`

	result, err := s.db.ExecContext(ctx, query, calendarID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete calendar events: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
