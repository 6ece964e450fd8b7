package impl

import (
	"context"
	"log/slog"
	"time"

	"hearth/config"
	deliverycontext "hearth/internal/delivery/context"
	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/domain/token"
	"hearth/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// inviteService implements the InviteUsecase interface.
type inviteService struct {
	inviteRepo repository.InviteRepository
	settings   service.SettingsProvider
	mailer     service.Mailer
	qrcode     service.QRCodeService
	clock      service.Clock
	inviteTTL  time.Duration
	logger     *slog.Logger
}

// InviteServiceParams holds dependencies for the invite service, injected by Fx.
type InviteServiceParams struct {
	fx.In

	InviteRepo repository.InviteRepository
	Settings   service.SettingsProvider
	Mailer     service.Mailer
	QRCode     service.QRCodeService
	Clock      service.Clock
	Config     *config.Config
	Logger     *slog.Logger
}

// NewInviteService is the constructor for inviteService.
func NewInviteService(params InviteServiceParams) usecase.InviteUsecase {
	inviteTTL := 7 * 24 * time.Hour
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.InviteTokenTTL > 0 {
		inviteTTL = params.Config.Auth.InviteTokenTTL
	}

	return &inviteService{
		inviteRepo: params.InviteRepo,
		settings:   params.Settings,
		mailer:     params.Mailer,
		qrcode:     params.QRCode,
		clock:      params.Clock,
		inviteTTL:  inviteTTL,
		logger:     params.Logger,
	}
}

func (srv *inviteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrRefreshInvite upserts the invite for an email with a fresh
// token. An existing unconsumed invite is refreshed in place, so each
// address carries at most one live link and the older mail goes dead.
func (srv *inviteService) CreateOrRefreshInvite(ctx context.Context, input *usecase.CreateInviteInput) (*entity.Invite, error) {
	// Policy is evaluated per request, not cached at startup.
	if input.Source == entity.InviteSourceSelf && !srv.settings.AnonymousRegistrationEnabled() {
		return nil, errors.WithStack(domainerrors.ErrRegistrationDisabled)
	}

	now := srv.clock.Now()

	rec, err := token.Issue(now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue invite token")
	}
	encoded := token.Encode(rec)

	invite := &entity.Invite{
		ID:          uuid.New(),
		Email:       input.Email,
		Source:      input.Source,
		Language:    input.Language,
		Token:       encoded,
		TokenDigest: token.Digest(encoded),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := srv.inviteRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		if existing.Consumed() {
			// The address already registered through this invite; a new
			// one would never be consumable.
			return nil, errors.WithStack(domainerrors.ErrDuplicateEmail)
		}

		invite.ID = existing.ID
		invite.CreatedAt = existing.CreatedAt
	case errors.Is(err, repository.ErrInviteNotFound):
		// First invite for this address.
	default:
		return nil, errors.Wrap(err, "failed to look up existing invite")
	}

	if err := srv.inviteRepo.Upsert(ctx, invite); err != nil {
		return nil, errors.Wrap(err, "failed to persist invite")
	}

	if err := srv.mailer.SendInviteMail(ctx, invite); err != nil {
		srv.log(ctx).Warn("Failed to send invite mail",
			slog.String("inviteID", invite.ID.String()), slog.Any("error", err))
	}

	srv.log(ctx).Info("Invite issued",
		slog.String("inviteID", invite.ID.String()), slog.String("source", string(invite.Source)))

	return invite, nil
}

// FindByToken resolves a presented token to its unconsumed invite. The
// lookup goes through the token digest so the raw token never becomes a
// query parameter against the store.
func (srv *inviteService) FindByToken(ctx context.Context, presented string) (*entity.Invite, error) {
	invite, err := srv.inviteRepo.FindByTokenDigest(ctx, token.Digest(presented))
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, errors.WithStack(domainerrors.ErrTokenNotFound)
		}

		return nil, errors.Wrap(err, "failed to look up invite by token")
	}

	return invite, nil
}

// Validate checks the invite's token structure and expiry at the given
// instant.
func (srv *inviteService) Validate(invite *entity.Invite, now time.Time) error {
	if invite.Consumed() {
		return errors.WithStack(domainerrors.ErrTokenNotFound)
	}

	rec, err := token.Parse(invite.Token)
	if err != nil {
		return errors.WithStack(domainerrors.ErrTokenMalformed)
	}

	if rec.Expired(now, srv.inviteTTL) {
		return errors.WithStack(domainerrors.ErrTokenExpired)
	}

	return nil
}

// Consume retires the invite through the caller's repository so the
// write joins the caller's transaction. The conditional update makes
// consumption at-most-once under concurrent registrations.
func (srv *inviteService) Consume(ctx context.Context, repo repository.InviteRepository, invite *entity.Invite) error {
	consumed, err := repo.MarkConsumed(ctx, invite.ID)
	if err != nil {
		return errors.Wrap(err, "failed to mark invite consumed")
	}
	if !consumed {
		return errors.WithStack(domainerrors.ErrTokenNotFound)
	}

	return nil
}

// RegistrationQR renders the invite's registration link as a PNG QR
// code. Admin tooling shows it next to freshly issued invites.
func (srv *inviteService) RegistrationQR(ctx context.Context, inviteID uuid.UUID) ([]byte, error) {
	invite, err := srv.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, errors.WithStack(domainerrors.ErrTokenNotFound)
		}

		return nil, errors.Wrap(err, "failed to load invite for QR rendering")
	}

	if err := srv.Validate(invite, srv.clock.Now()); err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateRegistrationQR(invite.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render registration QR code")
	}

	return png, nil
}
