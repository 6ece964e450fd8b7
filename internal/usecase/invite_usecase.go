package usecase

import (
	"context"
	"time"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateInviteInput defines the data required to create or refresh a
// registration invite.
type CreateInviteInput struct {
	Email    string              `json:"email" validate:"required,email"`
	Source   entity.InviteSource `json:"-"`
	Language string              `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// InviteUsecase defines the invite token lifecycle.
type InviteUsecase interface {
	// CreateOrRefreshInvite upserts the invite for an email with a fresh
	// token and sends the invite mail. Self-service invites are gated by
	// the anonymousRegistration setting.
	CreateOrRefreshInvite(ctx context.Context, input *CreateInviteInput) (*entity.Invite, error)

	// FindByToken resolves a presented token to its unconsumed invite,
	// or ErrTokenNotFound.
	FindByToken(ctx context.Context, presented string) (*entity.Invite, error)

	// Validate checks an invite's token for structure and expiry at the
	// given instant. A nil return means the invite is usable.
	Validate(invite *entity.Invite, now time.Time) error

	// Consume retires the invite through the given repository, which lets
	// a caller bind the write to its own transaction. At most one caller
	// ever succeeds; the loser observes ErrTokenNotFound.
	Consume(ctx context.Context, repo repository.InviteRepository, invite *entity.Invite) error

	// RegistrationQR renders the invite's registration link as a PNG QR
	// code for display alongside admin-issued invites.
	RegistrationQR(ctx context.Context, inviteID uuid.UUID) ([]byte, error)
}
