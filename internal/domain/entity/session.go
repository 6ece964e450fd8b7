package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a caller-to-identity binding established on login. The raw
// session token is handed to the caller once; only its SHA-256 hash is
// persisted, so a database leak cannot be replayed as a session.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its lifetime at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
