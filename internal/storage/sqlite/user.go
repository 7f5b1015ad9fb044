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

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure
// on the given column (e.g. "users.username").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// CreateUser inserts a new user and returns the generated user_id
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (username, pw_hash, email)
		VALUES (?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
	)

	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return 0, storage.ErrUserExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted user id: %w", err)
	}

	user.ID = id
	return id, nil
}

// GetUserByID retrieves a user by id
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT user_id, username, pw_hash, email
		FROM users
		WHERE user_id = ?
	`

	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// GetUserByUsername retrieves a user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT user_id, username, pw_hash, email
		FROM users
		WHERE username = ?
	`

	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&email,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if email.Valid {
		user.Email = &email.String
	}

	return user, nil
}

// UpdatePassword replaces the stored password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET pw_hash = ? WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// DeleteUser deletes a user row by id
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}
