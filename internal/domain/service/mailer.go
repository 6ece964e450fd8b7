package service

import (
	"context"

	"hearth/internal/domain/entity"
)

// Mailer delivers the outbound mails the auth flows produce. Delivery is
// fire-and-forget from the core's perspective: implementations log
// failures, the flows never surface them to the caller.
type Mailer interface {
	// SendInviteMail delivers a registration invite link for the invite's
	// email address.
	SendInviteMail(ctx context.Context, invite *entity.Invite) error

	// SendRecoveryMail delivers a password-recovery link carrying the
	// token secret to the user. Only the secret travels; the stored
	// record keeps the issue timestamp.
	SendRecoveryMail(ctx context.Context, user *entity.User, secret string) error
}
