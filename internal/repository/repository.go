package repository

import (
	"context"

	"github.com/nkiryanov/authsvc/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user with unique username
	// Uniqueness is enforced by the storage constraint, not by a pre-check,
	// so concurrent registrations race safely
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, passwordHash string) (models.User, error)

	// Get user by username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Resolve session token to its user in a single query,
	// so the lookup is atomic with respect to a concurrent session delete
	// If token not found must return apperrors.ErrSessionNotFound
	GetUserBySessionToken(ctx context.Context, token string) (models.User, error)

	// Delete user, their sessions go away with the cascade
	DeleteUser(ctx context.Context, userID int64) error
}

// Session repository interface
type SessionRepo interface {
	// Insert session or replace the existing one with the same token
	SaveSession(ctx context.Context, token string, userID int64) (models.Session, error)

	// Delete session by token
	// Must be idempotent: deleting a non-existent token is not an error
	DeleteSession(ctx context.Context, token string) error

	// Delete all sessions that belong to the user, returns the number deleted
	// The cascade on user deletion covers the production path, this one exists
	// for completeness and tests
	DeleteUserSessions(ctx context.Context, userID int64) (int64, error)
}

type Storage interface {
	User() UserRepo
	Session() SessionRepo

	// Run fn within a single db transaction
	// Commits when fn returns nil, rolls back otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
