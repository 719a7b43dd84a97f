// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateKey is returned by InsertUnique when the email is already taken.
	// Every other failure from a UserRepository is a generic store failure.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the standard operations for user persistence.
// Implementations must enforce email uniqueness atomically: two concurrent
// InsertUnique calls for the same email leave exactly one record behind.
type UserRepository interface {
	// InsertUnique persists a new user and fills in its ID and timestamps.
	InsertUnique(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// Delete removes a user. Tokens already issued to that user stop resolving.
	Delete(ctx context.Context, id uuid.UUID) error
}
