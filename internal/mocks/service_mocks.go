package mocks

import (
	"context"
	"time"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock implementation of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockMailer is a mock implementation of service.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendInviteMail(ctx context.Context, invite *entity.Invite) error {
	args := m.Called(ctx, invite)

	return args.Error(0)
}

func (m *MockMailer) SendRecoveryMail(ctx context.Context, user *entity.User, secret string) error {
	args := m.Called(ctx, user, secret)

	return args.Error(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(userID uuid.UUID, superAdmin bool) (string, error) {
	args := m.Called(userID, superAdmin)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.AccessClaims), args.Error(1)
}

// MockQRCodeService is a mock implementation of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) GenerateRegistrationQR(encodedToken string) ([]byte, error) {
	args := m.Called(encodedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

// MockSettingsProvider is a mock implementation of service.SettingsProvider.
type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) AnonymousRegistrationEnabled() bool {
	args := m.Called()

	return args.Bool(0)
}

func (m *MockSettingsProvider) NeedApproval() bool {
	args := m.Called()

	return args.Bool(0)
}

func (m *MockSettingsProvider) DefaultUserGroup() string {
	args := m.Called()

	return args.String(0)
}

// FixedClock is a service.Clock pinned to a single instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
