package usecase

import (
	"context"

	"hearth/internal/domain/entity"
)

// RegistrationInput is the typed submission for creating an account from
// an invite. The account email always comes from the invite itself, never
// from this struct, so a valid token cannot be used to register a
// different address.
type RegistrationInput struct {
	Token           string `json:"token" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,max=25,alphanum"`
	GroupID         string `json:"groupId" validate:"omitempty,max=50"`
	Password        string `json:"password" validate:"required,min=8,max=255"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Title           string `json:"title" validate:"omitempty,max=100"`
}

// RegistrationOutput reports the created account and, when the
// deployment auto-logs-in new users, the established session.
type RegistrationOutput struct {
	User            *entity.User
	PendingApproval bool
	Session         *LoginOutput // nil while the account awaits approval
}

// RegistrationUsecase turns a valid invite into an active user account.
type RegistrationUsecase interface {
	// BeginRegistration resolves and validates the presented invite token
	// for a guest caller. Authenticated callers are rejected with
	// ErrAlreadyAuthenticated.
	BeginRegistration(ctx context.Context, presentedToken string, authenticated bool) (*entity.Invite, error)

	// CompleteRegistration validates the submission and, in one atomic
	// unit, consumes the invite and creates the User with its Profile and
	// Credential. Validation failures return *ValidationErrors and leave
	// the invite untouched and re-presentable.
	CompleteRegistration(ctx context.Context, input *RegistrationInput, authenticated bool) (*RegistrationOutput, error)
}
