package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharecal/internal/models"
	"sharecal/internal/storage"
)

// CreateCalendar inserts a calendar owned by userID and returns the generated
// calendar_id. The UNIQUE constraint on user_id enforces one calendar per user.
func (s *Storage) CreateCalendar(ctx context.Context, userID int64) (int64, error) {
	query := `INSERT INTO calendars (user_id) VALUES (?)`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert calendar: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted calendar id: %w", err)
	}

	return id, nil
}

// GetCalendarByID retrieves a calendar by id
func (s *Storage) GetCalendarByID(ctx context.Context, calendarID int64) (*models.Calendar, error) {
	query := `
		SELECT calendar_id, user_id, share_url
		FROM calendars
		WHERE calendar_id = ?
	`

	return s.scanCalendar(s.db.QueryRowContext(ctx, query, calendarID))
}

// GetCalendarByUserID retrieves the calendar owned by userID
func (s *Storage) GetCalendarByUserID(ctx context.Context, userID int64) (*models.Calendar, error) {
	query := `
		SELECT calendar_id, user_id, share_url
		FROM calendars
		WHERE user_id = ?
	`

	return s.scanCalendar(s.db.QueryRowContext(ctx, query, userID))
}

// GetCalendarByShareURL retrieves a calendar by its share token
func (s *Storage) GetCalendarByShareURL(ctx context.Context, token string) (*models.Calendar, error) {
	query := `
		SELECT calendar_id, user_id, share_url
		FROM calendars
		WHERE share_url = ?
	`

	return s.scanCalendar(s.db.QueryRowContext(ctx, query, token))
}

func (s *Storage) scanCalendar(row *sql.Row) (*models.Calendar, error) {
	calendar := &models.Calendar{}
	var shareURL sql.NullString

	err := row.Scan(
		&calendar.ID,
		&calendar.UserID,
		&shareURL,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCalendarNotFound
		}
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	if shareURL.Valid {
		calendar.ShareURL = &shareURL.String
	}

	return calendar, nil
}

// UpdateShareURL sets or clears the calendar's share token. A nil token
// removes the share link; tokens are globally unique across calendars.
func (s *Storage) UpdateShareURL(ctx context.Context, calendarID int64, token *string) error {
	query := `UPDATE calendars SET share_url = ? WHERE calendar_id = ?`

	result, err := s.db.ExecContext(ctx, query, token, calendarID)
	if err != nil {
		if isUniqueViolation(err, "calendars.share_url") {
			return storage.ErrShareTokenTaken
		}
		return fmt.Errorf("failed to update share url: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCalendarNotFound
	}

	return nil
}

// DeleteCalendar deletes a calendar row by id
func (s *Storage) DeleteCalendar(ctx context.Context, calendarID int64) error {
	query := `DELETE FROM calendars WHERE calendar_id = ?`

	result, err := s.db.ExecContext(ctx, query, calendarID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCalendarNotFound
	}

	return nil
}
