package storage

import (
	"context"

	"sharecal/internal/models"
)

// UserStore defines the interface for user persistence
type UserStore interface {
	// CreateUser inserts a new user and returns the generated id.
	// Returns ErrUserExists if the username is already taken.
	CreateUser(ctx context.Context, user *models.User) (int64, error)

	// GetUserByID retrieves a user by id
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername retrieves a user by username
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword replaces the stored password hash
	// Returns ErrUserNotFound if the user doesn't exist
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// DeleteUser deletes a user row by id
	// Returns ErrUserNotFound if the user doesn't exist
	DeleteUser(ctx context.Context, userID int64) error
}
