package repository

import (
	"context"

	"hearth/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for session persistence.
var (
	// ErrSessionNotFound is returned when no session matches the lookup.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session exists but is past its lifetime.
	ErrSessionExpired = errors.New("session has expired")
)

// SessionRepository defines the interface for session persistence. The
// raw session token never reaches this layer; callers pass its SHA-256
// hash.
type SessionRepository interface {
	// Create persists a new session row.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a live session by its stored token hash.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash destroys a session. Deleting a session that does
	// not exist is not an error; logout is idempotent.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID destroys every session belonging to a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes sessions past their lifetime.
	DeleteExpired(ctx context.Context) error
}
