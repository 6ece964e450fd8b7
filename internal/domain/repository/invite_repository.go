package repository

import (
	"context"
	"errors"

	"hearth/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrInviteNotFound is returned when no invite matches the lookup, which
// includes invites that have already been consumed.
var ErrInviteNotFound = errors.New("invite not found")

// InviteRepository defines the standard operations for invite persistence.
type InviteRepository interface {
	// FindByEmail retrieves the invite for an email address, consumed or
	// not. Upsert semantics rely on the one-invite-per-email invariant.
	FindByEmail(ctx context.Context, email string) (*entity.Invite, error)

	// FindByID retrieves an invite by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invite, error)

	// FindByTokenDigest retrieves an unconsumed invite by the SHA-256
	// digest of its encoded token. Consumed invites never resolve here.
	FindByTokenDigest(ctx context.Context, digest string) (*entity.Invite, error)

	// Upsert creates the invite or, when one already exists for the
	// email, overwrites its token, source and language.
	Upsert(ctx context.Context, invite *entity.Invite) error

	// MarkConsumed retires the invite if it is still unconsumed. It
	// reports whether this caller performed the consumption; false means
	// a concurrent registration already claimed it.
	MarkConsumed(ctx context.Context, id uuid.UUID) (bool, error)
}
