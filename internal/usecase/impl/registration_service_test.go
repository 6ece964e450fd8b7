package impl

import (
	"context"
	"testing"
	"time"

	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/token"
	"hearth/internal/mocks"
	"hearth/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	userRepo   *mocks.MockUserRepository
	inviteRepo *mocks.MockInviteRepository
	inviteFlow *mocks.MockInviteUsecase
	sessions   *mocks.MockSessionUsecase
	hasher     *mocks.MockPasswordHasher
	settings   *mocks.MockSettingsProvider
	txManager  *mocks.MockTransactionManager
	srv        usecase.RegistrationUsecase
}

func newRegistrationFixture(clock mocks.FixedClock) *registrationFixture {
	f := &registrationFixture{
		userRepo:   new(mocks.MockUserRepository),
		inviteRepo: new(mocks.MockInviteRepository),
		inviteFlow: new(mocks.MockInviteUsecase),
		sessions:   new(mocks.MockSessionUsecase),
		hasher:     new(mocks.MockPasswordHasher),
		settings:   new(mocks.MockSettingsProvider),
	}
	f.txManager = &mocks.MockTransactionManager{
		Factory: &mocks.MockRepositoryFactory{
			Users:   f.userRepo,
			Invites: f.inviteRepo,
		},
	}

	f.srv = NewRegistrationService(RegistrationServiceParams{
		TxManager:  f.txManager,
		UserRepo:   f.userRepo,
		InviteFlow: f.inviteFlow,
		Sessions:   f.sessions,
		Hasher:     f.hasher,
		Settings:   f.settings,
		Clock:      clock,
		Logger:     testLogger(),
	})

	return f
}

func validRegistrationInput(presentedToken string) *usecase.RegistrationInput {
	return &usecase.RegistrationInput{
		Token:           presentedToken,
		Username:        "newuser42",
		Password:        "NewPassw0rd!",
		PasswordConfirm: "NewPassw0rd!",
		FirstName:       "Nora",
		LastName:        "Klein",
	}
}

func TestRegistrationService_BeginRegistration(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})
	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)

	got, err := f.srv.BeginRegistration(context.Background(), invite.Token, false)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, got.ID)
}

func TestRegistrationService_BeginRegistration_Authenticated(t *testing.T) {
	f := newRegistrationFixture(mocks.FixedClock{Instant: time.Now()})

	_, err := f.srv.BeginRegistration(context.Background(), "whatever", true)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyAuthenticated)

	f.inviteFlow.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestRegistrationService_CompleteRegistration_AutoLogin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	invite.Language = "de"
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, input.Username).
		Return(nil, repository.ErrUserNotFound)
	f.userRepo.On("FindByEmail", mock.Anything, invite.Email).
		Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Hash", input.Password).Return("$2a$10$hash", nil)
	f.settings.On("DefaultUserGroup").Return("users")
	f.settings.On("NeedApproval").Return(false)

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	f.inviteRepo.On("FindByTokenDigest", mock.Anything, token.Digest(invite.Token)).
		Return(invite, nil)
	f.inviteFlow.On("Consume", mock.Anything, f.inviteRepo, invite).Return(nil)

	var created *entity.User
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.User) }).
		Return(nil)

	login := &usecase.LoginOutput{SessionToken: "raw-session", AccessToken: "jwt"}
	f.sessions.On("EstablishSession", mock.Anything, mock.AnythingOfType("*entity.User")).
		Return(login, nil)

	out, err := f.srv.CompleteRegistration(context.Background(), input, false)
	require.NoError(t, err)
	require.NotNil(t, created)

	// The account email comes from the invite, never from the form.
	assert.Equal(t, invite.Email, created.Email)
	assert.Equal(t, "de", created.Language)
	assert.Equal(t, "users", created.GroupID)
	assert.Equal(t, entity.UserStatusEnabled, created.Status)
	assert.Equal(t, "Nora Klein", created.DisplayName)
	require.NotNil(t, created.Credential)
	assert.Equal(t, "$2a$10$hash", created.Credential.PasswordHash)

	assert.False(t, out.PendingApproval)
	assert.Equal(t, login, out.Session)
}

func TestRegistrationService_CompleteRegistration_NeedApproval(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound)
	f.userRepo.On("FindByEmail", mock.Anything, invite.Email).
		Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Hash", mock.Anything).Return("$2a$10$hash", nil)
	f.settings.On("DefaultUserGroup").Return("users")
	f.settings.On("NeedApproval").Return(true)

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	f.inviteRepo.On("FindByTokenDigest", mock.Anything, mock.Anything).Return(invite, nil)
	f.inviteFlow.On("Consume", mock.Anything, f.inviteRepo, invite).Return(nil)

	var created *entity.User
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.User) }).
		Return(nil)

	out, err := f.srv.CompleteRegistration(context.Background(), input, false)
	require.NoError(t, err)

	assert.True(t, out.PendingApproval)
	assert.Nil(t, out.Session)
	assert.Equal(t, entity.UserStatusPending, created.Status)

	// No auto-login while the account awaits approval.
	f.sessions.AssertNotCalled(t, "EstablishSession", mock.Anything, mock.Anything)
}

func TestRegistrationService_CompleteRegistration_ValidationFailures(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)

	tests := []struct {
		name      string
		mutate    func(*usecase.RegistrationInput)
		wantField string
	}{
		{"username too short", func(in *usecase.RegistrationInput) { in.Username = "ab" }, "username"},
		{"username not alphanumeric", func(in *usecase.RegistrationInput) { in.Username = "bad user!" }, "username"},
		{"password too short", func(in *usecase.RegistrationInput) { in.Password = "short"; in.PasswordConfirm = "short" }, "password"},
		{"password confirm mismatch", func(in *usecase.RegistrationInput) { in.PasswordConfirm = "different" }, "passwordConfirm"},
		{"missing first name", func(in *usecase.RegistrationInput) { in.FirstName = "" }, "firstName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture(mocks.FixedClock{Instant: now})

			f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
			f.inviteFlow.On("Validate", invite, now).Return(nil)
			f.userRepo.On("FindByUsername", mock.Anything, mock.Anything).
				Return(nil, repository.ErrUserNotFound).Maybe()

			input := validRegistrationInput(invite.Token)
			tt.mutate(input)

			_, err := f.srv.CompleteRegistration(context.Background(), input, false)

			var verr *domainerrors.ValidationErrors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields(), tt.wantField)

			// A failed submission leaves the invite untouched.
			f.inviteFlow.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRegistrationService_CompleteRegistration_DuplicateUsername(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, input.Username).
		Return(&entity.User{Username: input.Username}, nil)

	_, err := f.srv.CompleteRegistration(context.Background(), input, false)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateUsername)
}

func TestRegistrationService_CompleteRegistration_InviteEmailAlreadyRegistered(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound)
	f.userRepo.On("FindByEmail", mock.Anything, invite.Email).
		Return(&entity.User{Email: invite.Email}, nil)

	_, err := f.srv.CompleteRegistration(context.Background(), input, false)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
}

func TestRegistrationService_CompleteRegistration_InviteConsumedMidFlight(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound)
	f.userRepo.On("FindByEmail", mock.Anything, invite.Email).
		Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Hash", mock.Anything).Return("$2a$10$hash", nil)
	f.settings.On("DefaultUserGroup").Return("users")
	f.settings.On("NeedApproval").Return(false)

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	// A concurrent registration consumed the invite between the pre-check
	// and the transaction.
	f.inviteRepo.On("FindByTokenDigest", mock.Anything, mock.Anything).
		Return(nil, repository.ErrInviteNotFound)

	_, err := f.srv.CompleteRegistration(context.Background(), input, false)
	assert.ErrorIs(t, err, domainerrors.ErrTokenNotFound)

	f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_CompleteRegistration_SessionFailureIsNotFatal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	invite := freshInvite(now)
	input := validRegistrationInput(invite.Token)

	f := newRegistrationFixture(mocks.FixedClock{Instant: now})

	f.inviteFlow.On("FindByToken", mock.Anything, invite.Token).Return(invite, nil)
	f.inviteFlow.On("Validate", invite, now).Return(nil)
	f.userRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound)
	f.userRepo.On("FindByEmail", mock.Anything, invite.Email).
		Return(nil, repository.ErrUserNotFound)
	f.hasher.On("Hash", mock.Anything).Return("$2a$10$hash", nil)
	f.settings.On("DefaultUserGroup").Return("users")
	f.settings.On("NeedApproval").Return(false)

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(nil)
	f.inviteRepo.On("FindByTokenDigest", mock.Anything, mock.Anything).Return(invite, nil)
	f.inviteFlow.On("Consume", mock.Anything, f.inviteRepo, invite).Return(nil)
	f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("EstablishSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("session store down"))

	out, err := f.srv.CompleteRegistration(context.Background(), input, false)
	require.NoError(t, err)

	// The account exists; the caller just has to log in manually.
	assert.NotNil(t, out.User)
	assert.Nil(t, out.Session)
}
