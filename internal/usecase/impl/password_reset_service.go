// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"hearth/config"
	deliverycontext "hearth/internal/delivery/context"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/domain/token"
	"hearth/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// passwordResetService implements the PasswordResetUsecase interface.
type passwordResetService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	mailer    service.Mailer
	clock     service.Clock
	resetTTL  time.Duration
	logger    *slog.Logger
}

// PasswordResetServiceParams holds dependencies for the password reset service, injected by Fx.
type PasswordResetServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Mailer    service.Mailer
	Clock     service.Clock
	Config    *config.Config
	Logger    *slog.Logger
}

// NewPasswordResetService is the constructor for passwordResetService.
func NewPasswordResetService(params PasswordResetServiceParams) usecase.PasswordResetUsecase {
	resetTTL := 24 * time.Hour
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
		resetTTL = params.Config.Auth.ResetTokenTTL
	}

	return &passwordResetService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		mailer:    params.Mailer,
		clock:     params.Clock,
		resetTTL:  resetTTL,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *passwordResetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestReset issues a recovery token for the account behind the email
// and mails it. An unknown email is logged and swallowed: the caller
// must not be able to tell the two outcomes apart.
func (srv *passwordResetService) RequestReset(ctx context.Context, input *usecase.RequestResetInput) error {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password recovery requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to look up user for password recovery")
	}

	rec, err := token.Issue(srv.clock.Now())
	if err != nil {
		return errors.Wrap(err, "failed to issue recovery token")
	}

	// Overwrites any outstanding token; at most one is live per user.
	encoded := token.Encode(rec)
	if err := srv.userRepo.SetRecoveryToken(ctx, user.ID, encoded); err != nil {
		return errors.Wrap(err, "failed to store recovery token")
	}

	// Fire-and-forget: delivery failure is logged, never surfaced, so the
	// response stays identical for existing and missing accounts.
	if err := srv.mailer.SendRecoveryMail(ctx, user, rec.Secret); err != nil {
		srv.log(ctx).Warn("Failed to send recovery mail", slog.Any("userID", user.ID), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Recovery token issued", slog.Any("userID", user.ID))

	return nil
}

// ValidateResetToken checks a presented secret against the user's stored
// recovery token without consuming it.
func (srv *passwordResetService) ValidateResetToken(ctx context.Context, userGUID, presented string) error {
	user, err := srv.userRepo.FindByGUID(ctx, userGUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrTokenNotFound)
		}

		return errors.Wrap(err, "failed to load user for token validation")
	}

	return srv.evaluate(user.RecoveryToken, presented)
}

// evaluate applies the token state machine to a stored token and a
// presented secret: NotFound when nothing is on record, Malformed on
// parse failure or secret mismatch, Expired past the TTL.
func (srv *passwordResetService) evaluate(stored, presented string) error {
	if stored == "" {
		return errors.WithStack(domainerrors.ErrTokenNotFound)
	}

	rec, err := token.Parse(stored)
	if err != nil {
		return errors.WithStack(domainerrors.ErrTokenMalformed)
	}

	// Constant-time compare; a single flipped bit is indistinguishable
	// from a structurally broken token.
	if !rec.Matches(presented) {
		return errors.WithStack(domainerrors.ErrTokenMalformed)
	}

	if rec.Expired(srv.clock.Now(), srv.resetTTL) {
		return errors.WithStack(domainerrors.ErrTokenExpired)
	}

	return nil
}

// ResetPassword consumes the recovery token and writes the new
// credential as one transaction. The compare-and-clear on the token row
// guarantees that of two racing consumers exactly one succeeds.
func (srv *passwordResetService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	if input.NewPassword != input.PasswordConfirm {
		verr := domainerrors.NewValidationErrors()
		verr.Add("passwordConfirm", "passwords do not match")

		return verr
	}

	// Hash outside the transaction (bcrypt is CPU-bound).
	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during reset", slog.Any("error", err))

		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByGUID(ctx, input.UserGUID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.WithStack(domainerrors.ErrTokenNotFound)
			}

			return errors.Wrap(err, "failed to load user for password reset")
		}

		if err := srv.evaluate(user.RecoveryToken, input.Token); err != nil {
			return err
		}

		cleared, err := userRepo.ClearRecoveryToken(ctx, user.ID, user.RecoveryToken)
		if err != nil {
			return errors.Wrap(err, "failed to clear recovery token")
		}
		if !cleared {
			// A concurrent reset consumed the token between our read and
			// the conditional clear.
			return errors.WithStack(domainerrors.ErrTokenNotFound)
		}

		if err := userRepo.UpdateCredential(ctx, user.ID, passwordHash); err != nil {
			return errors.Wrap(err, "failed to update credential")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Password reset completed")

	return nil
}
