package mocks

import (
	"context"
	"time"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"
	"hearth/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInviteUsecase is a mock implementation of usecase.InviteUsecase.
type MockInviteUsecase struct {
	mock.Mock
}

func (m *MockInviteUsecase) CreateOrRefreshInvite(ctx context.Context, input *usecase.CreateInviteInput) (*entity.Invite, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockInviteUsecase) FindByToken(ctx context.Context, presented string) (*entity.Invite, error) {
	args := m.Called(ctx, presented)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockInviteUsecase) Validate(invite *entity.Invite, now time.Time) error {
	args := m.Called(invite, now)

	return args.Error(0)
}

func (m *MockInviteUsecase) Consume(ctx context.Context, repo repository.InviteRepository, invite *entity.Invite) error {
	args := m.Called(ctx, repo, invite)

	return args.Error(0)
}

func (m *MockInviteUsecase) RegistrationQR(ctx context.Context, inviteID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, inviteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

// MockSessionUsecase is a mock implementation of usecase.SessionUsecase.
type MockSessionUsecase struct {
	mock.Mock
}

func (m *MockSessionUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *MockSessionUsecase) Logout(ctx context.Context, sessionToken string) (string, error) {
	args := m.Called(ctx, sessionToken)

	return args.String(0), args.Error(1)
}

func (m *MockSessionUsecase) CurrentIdentity(ctx context.Context, sessionToken string) (*entity.User, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockSessionUsecase) ResolveSession(ctx context.Context, sessionID string) (*usecase.SessionIdentity, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.SessionIdentity), args.Error(1)
}

func (m *MockSessionUsecase) EstablishSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

// MockPasswordResetUsecase is a mock implementation of usecase.PasswordResetUsecase.
type MockPasswordResetUsecase struct {
	mock.Mock
}

func (m *MockPasswordResetUsecase) RequestReset(ctx context.Context, input *usecase.RequestResetInput) error {
	args := m.Called(ctx, input)

	return args.Error(0)
}

func (m *MockPasswordResetUsecase) ValidateResetToken(ctx context.Context, userGUID, presented string) error {
	args := m.Called(ctx, userGUID, presented)

	return args.Error(0)
}

func (m *MockPasswordResetUsecase) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	args := m.Called(ctx, input)

	return args.Error(0)
}

// MockRegistrationUsecase is a mock implementation of usecase.RegistrationUsecase.
type MockRegistrationUsecase struct {
	mock.Mock
}

func (m *MockRegistrationUsecase) BeginRegistration(ctx context.Context, presentedToken string, authenticated bool) (*entity.Invite, error) {
	args := m.Called(ctx, presentedToken, authenticated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockRegistrationUsecase) CompleteRegistration(ctx context.Context, input *usecase.RegistrationInput, authenticated bool) (*usecase.RegistrationOutput, error) {
	args := m.Called(ctx, input, authenticated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RegistrationOutput), args.Error(1)
}
