package entity

import (
	"time"

	"github.com/google/uuid"
)

// InviteSource records who initiated a registration invite.
type InviteSource string

const (
	// InviteSourceSelf marks invites created through anonymous
	// self-service registration.
	InviteSourceSelf InviteSource = "self"
	// InviteSourceAdmin marks invites issued by an administrator.
	InviteSourceAdmin InviteSource = "admin"
)

// Invite is a pending registration intent keyed by e-mail. At most one
// unconsumed invite exists per address; refreshing an invite overwrites
// the token and invalidates any previously mailed link.
type Invite struct {
	ID          uuid.UUID
	Email       string
	Source      InviteSource
	Language    string
	Token       string // Encoded token record, mailed to the invitee.
	TokenDigest string // SHA-256 of Token; the store's lookup key.
	ConsumedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Consumed reports whether the invite has already produced an account.
// A consumed invite is terminal and its token never resolves again.
func (i *Invite) Consumed() bool {
	return i.ConsumedAt != nil
}
