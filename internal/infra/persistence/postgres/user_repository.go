// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain's UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Profile").
		Preload("Credential").
		Where(query, args...).
		First(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByID retrieves a single user by their unique ID, preloading profile and credential.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByGUID retrieves a single user by their stable external identifier.
func (repo *userRepository) FindByGUID(ctx context.Context, guid string) (*entity.User, error) {
	return repo.findOne(ctx, "guid = ?", guid)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

// Create persists a new user entity, including its profile and credential.
// GORM's Create with associations inserts into users, user_profiles and
// user_credentials together.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email or username already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.Profile != nil && userM.Profile != nil {
		user.Profile.UserID = userM.Profile.UserID
		user.Profile.UpdatedAt = userM.Profile.UpdatedAt
	}
	if user.Credential != nil && userM.Credential != nil {
		user.Credential.UserID = userM.Credential.UserID
		user.Credential.UpdatedAt = userM.Credential.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its profile, in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email or username already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// SetRecoveryToken stores an encoded recovery token on the user row,
// replacing any outstanding one.
func (repo *userRepository) SetRecoveryToken(ctx context.Context, userID uuid.UUID, encoded string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("recovery_token", encoded)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set recovery token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// ClearRecoveryToken removes the stored token only if it still equals
// expected. The conditional WHERE makes concurrent consumers serialize
// on the row; exactly one sees RowsAffected == 1.
func (repo *userRepository) ClearRecoveryToken(ctx context.Context, userID uuid.UUID, expected string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND recovery_token = ?", userID, expected).
		Update("recovery_token", "")
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to clear recovery token")
	}

	return result.RowsAffected > 0, nil
}

// UpdateCredential replaces the user's stored password hash.
func (repo *userRepository) UpdateCredential(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("user_id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update credential")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:            data.ID,
		GUID:          data.GUID,
		Email:         data.Email,
		Username:      data.Username,
		DisplayName:   data.DisplayName,
		Language:      data.Language,
		GroupID:       data.GroupID,
		Status:        entity.UserStatus(data.Status),
		SuperAdmin:    data.SuperAdmin,
		RecoveryToken: data.RecoveryToken,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	if data.Profile != nil {
		user.Profile = &entity.Profile{
			UserID:    data.Profile.UserID,
			FirstName: data.Profile.FirstName,
			LastName:  data.Profile.LastName,
			Title:     data.Profile.Title,
			UpdatedAt: data.Profile.UpdatedAt,
		}
	}
	if data.Credential != nil {
		user.Credential = &entity.Credential{
			UserID:       data.Credential.UserID,
			PasswordHash: data.Credential.PasswordHash,
			UpdatedAt:    data.Credential.UpdatedAt,
		}
	}

	return user
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:            data.ID,
		GUID:          data.GUID,
		Email:         data.Email,
		Username:      data.Username,
		DisplayName:   data.DisplayName,
		Language:      data.Language,
		GroupID:       data.GroupID,
		Status:        string(data.Status),
		SuperAdmin:    data.SuperAdmin,
		RecoveryToken: data.RecoveryToken,
	}

	if data.Profile != nil {
		userM.Profile = &model.ProfileModel{
			UserID:    data.Profile.UserID,
			FirstName: data.Profile.FirstName,
			LastName:  data.Profile.LastName,
			Title:     data.Profile.Title,
		}
	}
	if data.Credential != nil {
		userM.Credential = &model.CredentialModel{
			UserID:       data.Credential.UserID,
			PasswordHash: data.Credential.PasswordHash,
		}
	}

	return userM
}
