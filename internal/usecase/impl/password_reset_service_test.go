package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"hearth/config"
	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/token"
	"hearth/internal/mocks"
	"hearth/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		ResetTokenTTL:  24 * time.Hour,
		InviteTokenTTL: 7 * 24 * time.Hour,
		SessionTTL:     7 * 24 * time.Hour,
	}

	return cfg
}

func newPasswordResetFixture(clock mocks.FixedClock) (*mocks.MockUserRepository, *mocks.MockPasswordHasher, *mocks.MockMailer, *mocks.MockTransactionManager, usecase.PasswordResetUsecase) {
	userRepo := new(mocks.MockUserRepository)
	hasher := new(mocks.MockPasswordHasher)
	mailer := new(mocks.MockMailer)
	txManager := &mocks.MockTransactionManager{
		Factory: &mocks.MockRepositoryFactory{Users: userRepo},
	}

	srv := NewPasswordResetService(PasswordResetServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Mailer:    mailer,
		Clock:     clock,
		Config:    testAuthConfig(),
		Logger:    testLogger(),
	})

	return userRepo, hasher, mailer, txManager, srv
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &entity.User{ID: uuid.New(), GUID: uuid.NewString(), Email: "kim@example.com"}

	userRepo, _, mailer, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: now})

	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	var storedEncoded string
	userRepo.On("SetRecoveryToken", mock.Anything, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedEncoded = args.String(2) }).
		Return(nil)

	var mailedSecret string
	mailer.On("SendRecoveryMail", mock.Anything, user, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { mailedSecret = args.String(2) }).
		Return(nil)

	err := srv.RequestReset(context.Background(), &usecase.RequestResetInput{Email: user.Email})
	require.NoError(t, err)

	// The stored token parses back and carries the mailed secret plus the
	// issuance instant.
	rec, err := token.Parse(storedEncoded)
	require.NoError(t, err)
	assert.True(t, rec.Matches(mailedSecret))
	assert.Equal(t, now.Unix(), rec.IssuedAt.Unix())

	userRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestPasswordResetService_RequestReset_UnknownEmailIsSilent(t *testing.T) {
	userRepo, _, mailer, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: time.Now()})

	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := srv.RequestReset(context.Background(), &usecase.RequestResetInput{Email: "ghost@example.com"})
	assert.NoError(t, err)

	// Nothing stored, nothing mailed.
	userRepo.AssertNotCalled(t, "SetRecoveryToken", mock.Anything, mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendRecoveryMail", mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetService_RequestReset_MailFailureSwallowed(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "kim@example.com"}
	userRepo, _, mailer, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: time.Now()})

	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	userRepo.On("SetRecoveryToken", mock.Anything, user.ID, mock.Anything).Return(nil)
	mailer.On("SendRecoveryMail", mock.Anything, user, mock.Anything).
		Return(errors.New("smtp unreachable"))

	err := srv.RequestReset(context.Background(), &usecase.RequestResetInput{Email: user.Email})
	assert.NoError(t, err)
}

func TestPasswordResetService_ValidateResetToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := token.Record{Secret: "c2VjcmV0LXNlY3JldC1zZWNyZXQ", IssuedAt: now.Add(-time.Hour)}
	encoded := token.Encode(rec)
	guid := uuid.NewString()

	tests := []struct {
		name      string
		stored    string
		presented string
		wantErr   error
	}{
		{"valid", encoded, rec.Secret, nil},
		{"no token on record", "", rec.Secret, domainerrors.ErrTokenNotFound},
		{"unparseable stored token", "garbage", rec.Secret, domainerrors.ErrTokenMalformed},
		{"wrong secret", encoded, "someone-elses-secret", domainerrors.ErrTokenMalformed},
		{
			"expired",
			token.Encode(token.Record{Secret: rec.Secret, IssuedAt: now.Add(-25 * time.Hour)}),
			rec.Secret,
			domainerrors.ErrTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo, _, _, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: now})

			userRepo.On("FindByGUID", mock.Anything, guid).
				Return(&entity.User{ID: uuid.New(), GUID: guid, RecoveryToken: tt.stored}, nil)

			err := srv.ValidateResetToken(context.Background(), guid, tt.presented)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPasswordResetService_ValidateResetToken_UnknownUser(t *testing.T) {
	userRepo, _, _, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: time.Now()})

	userRepo.On("FindByGUID", mock.Anything, "nope").Return(nil, repository.ErrUserNotFound)

	err := srv.ValidateResetToken(context.Background(), "nope", "whatever")
	assert.ErrorIs(t, err, domainerrors.ErrTokenNotFound)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := token.Record{Secret: "c2VjcmV0LXNlY3JldC1zZWNyZXQ", IssuedAt: now.Add(-time.Hour)}
	encoded := token.Encode(rec)
	user := &entity.User{ID: uuid.New(), GUID: uuid.NewString(), RecoveryToken: encoded}

	userRepo, hasher, _, txManager, srv := newPasswordResetFixture(mocks.FixedClock{Instant: now})

	hasher.On("Hash", "NewPassw0rd!").Return("$2a$10$hash", nil)
	txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("FindByGUID", mock.Anything, user.GUID).Return(user, nil)
	userRepo.On("ClearRecoveryToken", mock.Anything, user.ID, encoded).Return(true, nil)
	userRepo.On("UpdateCredential", mock.Anything, user.ID, "$2a$10$hash").Return(nil)

	err := srv.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		UserGUID:        user.GUID,
		Token:           rec.Secret,
		NewPassword:     "NewPassw0rd!",
		PasswordConfirm: "NewPassw0rd!",
	})
	require.NoError(t, err)

	userRepo.AssertExpectations(t)
}

func TestPasswordResetService_ResetPassword_ConfirmMismatch(t *testing.T) {
	_, hasher, _, _, srv := newPasswordResetFixture(mocks.FixedClock{Instant: time.Now()})

	err := srv.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		UserGUID:        uuid.NewString(),
		Token:           "secret",
		NewPassword:     "NewPassw0rd!",
		PasswordConfirm: "different",
	})

	var verr *domainerrors.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields(), "passwordConfirm")

	// Mismatch is caught before any hashing happens.
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestPasswordResetService_ResetPassword_LostRace(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := token.Record{Secret: "c2VjcmV0LXNlY3JldC1zZWNyZXQ", IssuedAt: now.Add(-time.Hour)}
	encoded := token.Encode(rec)
	user := &entity.User{ID: uuid.New(), GUID: uuid.NewString(), RecoveryToken: encoded}

	userRepo, hasher, _, txManager, srv := newPasswordResetFixture(mocks.FixedClock{Instant: now})

	hasher.On("Hash", mock.Anything).Return("$2a$10$hash", nil)
	txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("FindByGUID", mock.Anything, user.GUID).Return(user, nil)
	// A concurrent consumer cleared the token between read and clear.
	userRepo.On("ClearRecoveryToken", mock.Anything, user.ID, encoded).Return(false, nil)

	err := srv.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		UserGUID:        user.GUID,
		Token:           rec.Secret,
		NewPassword:     "NewPassw0rd!",
		PasswordConfirm: "NewPassw0rd!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenNotFound)

	userRepo.AssertNotCalled(t, "UpdateCredential", mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetService_ResetPassword_SecretIsNotReusableAsEncoded(t *testing.T) {
	// Presenting the full encoded token where the secret belongs must
	// fail; only the mailed secret validates.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := token.Record{Secret: "c2VjcmV0LXNlY3JldC1zZWNyZXQ", IssuedAt: now.Add(-time.Hour)}
	encoded := token.Encode(rec)
	user := &entity.User{ID: uuid.New(), GUID: uuid.NewString(), RecoveryToken: encoded}

	userRepo, hasher, _, txManager, srv := newPasswordResetFixture(mocks.FixedClock{Instant: now})

	hasher.On("Hash", mock.Anything).Return("$2a$10$hash", nil)
	txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("FindByGUID", mock.Anything, user.GUID).Return(user, nil)

	err := srv.ResetPassword(context.Background(), &usecase.ResetPasswordInput{
		UserGUID:        user.GUID,
		Token:           encoded,
		NewPassword:     "NewPassw0rd!",
		PasswordConfirm: "NewPassw0rd!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenMalformed)
}
