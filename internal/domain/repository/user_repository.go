// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"hearth/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByGUID retrieves a single user by their stable external identifier.
	FindByGUID(ctx context.Context, guid string) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user entity together with its profile and
	// credential associations.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// SetRecoveryToken stores an encoded recovery token on the user row,
	// replacing any outstanding one.
	SetRecoveryToken(ctx context.Context, userID uuid.UUID, encoded string) error

	// ClearRecoveryToken removes the stored recovery token only if it
	// still equals expected. It reports whether this caller won the
	// clear; a false result means a concurrent consumer got there first
	// or the token was already gone.
	ClearRecoveryToken(ctx context.Context, userID uuid.UUID, expected string) (bool, error)

	// UpdateCredential replaces the user's stored password hash.
	UpdateCredential(ctx context.Context, userID uuid.UUID, passwordHash string) error
}
