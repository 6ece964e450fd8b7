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
	"gorm.io/gorm/clause"
)

// inviteRepository implements the domain's InviteRepository interface using GORM.
type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository is the constructor for inviteRepository.
func NewInviteRepository(db *gorm.DB) repository.InviteRepository {
	return &inviteRepository{db: db}
}

// FindByEmail retrieves the invite for an email address, consumed or not.
func (repo *inviteRepository) FindByEmail(ctx context.Context, email string) (*entity.Invite, error) {
	var inviteM model.InviteModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&inviteM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInviteNotFound
		}

		return nil, errors.Wrap(err, "failed to find invite by email")
	}

	return toInviteDomain(&inviteM), nil
}

// FindByID retrieves an invite by its unique ID.
func (repo *inviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invite, error) {
	var inviteM model.InviteModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&inviteM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInviteNotFound
		}

		return nil, errors.Wrap(err, "failed to find invite by id")
	}

	return toInviteDomain(&inviteM), nil
}

// FindByTokenDigest retrieves an unconsumed invite by the SHA-256
// digest of its encoded token. Consumed invites never resolve here.
func (repo *inviteRepository) FindByTokenDigest(ctx context.Context, digest string) (*entity.Invite, error) {
	var inviteM model.InviteModel
	err := repo.db.WithContext(ctx).
		Where("token_digest = ? AND consumed_at IS NULL", digest).
		First(&inviteM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInviteNotFound
		}

		return nil, errors.Wrap(err, "failed to find invite by token digest")
	}

	return toInviteDomain(&inviteM), nil
}

// Upsert creates the invite or, when one already exists for the email,
// overwrites its token, source and language. The unique email column
// carries the one-invite-per-address invariant into the database.
func (repo *inviteRepository) Upsert(ctx context.Context, invite *entity.Invite) error {
	inviteM := fromInviteDomain(invite)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"source", "language", "token", "token_digest", "updated_at",
			}),
		}).
		Create(inviteM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			// The token digest collided, which only happens on token reuse.
			return domainerrors.NewDatabaseExecuteError(err, "invite token digest collision")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert invite")
	}

	invite.ID = inviteM.ID
	invite.CreatedAt = inviteM.CreatedAt
	invite.UpdatedAt = inviteM.UpdatedAt

	return nil
}

// MarkConsumed retires the invite if it is still unconsumed. The
// conditional WHERE serializes racing registrations on the row; only
// one caller observes RowsAffected == 1.
func (repo *inviteRepository) MarkConsumed(ctx context.Context, id uuid.UUID) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.InviteModel{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", gorm.Expr("NOW()"))
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark invite consumed")
	}

	return result.RowsAffected > 0, nil
}

// toInviteDomain converts a GORM InviteModel to a domain Invite entity.
func toInviteDomain(data *model.InviteModel) *entity.Invite {
	if data == nil {
		return nil
	}

	return &entity.Invite{
		ID:          data.ID,
		Email:       data.Email,
		Source:      entity.InviteSource(data.Source),
		Language:    data.Language,
		Token:       data.Token,
		TokenDigest: data.TokenDigest,
		ConsumedAt:  data.ConsumedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromInviteDomain converts a domain Invite entity to a GORM InviteModel.
func fromInviteDomain(data *entity.Invite) *model.InviteModel {
	if data == nil {
		return nil
	}

	return &model.InviteModel{
		ID:          data.ID,
		Email:       data.Email,
		Source:      string(data.Source),
		Language:    data.Language,
		Token:       data.Token,
		TokenDigest: data.TokenDigest,
		ConsumedAt:  data.ConsumedAt,
	}
}
