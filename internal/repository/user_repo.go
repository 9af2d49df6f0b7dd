// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id string) (*domain.User, error)
	// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
	// Email is the natural key for upserts.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// UpdateUser updates name and currency of an existing user in place.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
}
