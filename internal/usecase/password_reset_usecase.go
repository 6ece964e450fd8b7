// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
)

// --- Input DTOs ---

// RequestResetInput defines the data required to start password recovery.
type RequestResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput defines the data required to consume a recovery
// token and set a new password.
type ResetPasswordInput struct {
	UserGUID        string `json:"guid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=255"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// PasswordResetUsecase defines the password-recovery token lifecycle.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type PasswordResetUsecase interface {
	// RequestReset issues a recovery token and mails it. A request for an
	// unknown email is a silent no-op so the response never reveals
	// whether an account exists.
	RequestReset(ctx context.Context, input *RequestResetInput) error

	// ValidateResetToken checks the presented token against the user's
	// stored one without consuming it. A nil return means valid;
	// otherwise ErrTokenNotFound, ErrTokenExpired or ErrTokenMalformed.
	ValidateResetToken(ctx context.Context, userGUID, presented string) error

	// ResetPassword consumes the token and sets the new credential in one
	// atomic step. A token can be consumed exactly once; the loser of a
	// race observes ErrTokenNotFound.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
