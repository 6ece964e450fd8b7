// Package mocks provides testify mocks for the domain interfaces used
// across the service and delivery tests.
package mocks

import (
	"context"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGUID(ctx context.Context, guid string) (*entity.User, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) SetRecoveryToken(ctx context.Context, userID uuid.UUID, encoded string) error {
	args := m.Called(ctx, userID, encoded)

	return args.Error(0)
}

func (m *MockUserRepository) ClearRecoveryToken(ctx context.Context, userID uuid.UUID, expected string) (bool, error) {
	args := m.Called(ctx, userID, expected)

	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateCredential(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)

	return args.Error(0)
}

// MockInviteRepository is a mock implementation of repository.InviteRepository.
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) FindByEmail(ctx context.Context, email string) (*entity.Invite, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockInviteRepository) FindByTokenDigest(ctx context.Context, digest string) (*entity.Invite, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockInviteRepository) Upsert(ctx context.Context, invite *entity.Invite) error {
	args := m.Called(ctx, invite)

	return args.Error(0)
}

func (m *MockInviteRepository) MarkConsumed(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)

	return args.Bool(0), args.Error(1)
}

// MockSessionRepository is a mock implementation of repository.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockTransactionManager is a mock implementation of repository.TransactionManager.
// It runs the transactional function against the factory it was
// constructed with, so tests exercise the real closure body.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}

	return fn(m.Factory)
}

// MockRepositoryFactory is a mock implementation of repository.RepositoryFactory.
type MockRepositoryFactory struct {
	Users    repository.UserRepository
	Invites  repository.InviteRepository
	Sessions repository.SessionRepository
}

func (m *MockRepositoryFactory) UserRepo() repository.UserRepository {
	return m.Users
}

func (m *MockRepositoryFactory) InviteRepo() repository.InviteRepository {
	return m.Invites
}

func (m *MockRepositoryFactory) SessionRepo() repository.SessionRepository {
	return m.Sessions
}
