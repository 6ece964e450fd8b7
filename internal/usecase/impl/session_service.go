package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"time"

	"hearth/config"
	deliverycontext "hearth/internal/delivery/context"
	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	hasher      service.PasswordHasher
	tokens      service.TokenService
	clock       service.Clock
	sessionTTL  time.Duration
	logger      *slog.Logger
}

// SessionServiceParams holds dependencies for the session service, injected by Fx.
type SessionServiceParams struct {
	fx.In

	SessionRepo repository.SessionRepository
	UserRepo    repository.UserRepository
	Hasher      service.PasswordHasher
	Tokens      service.TokenService
	Clock       service.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	sessionTTL := 7 * 24 * time.Hour
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.SessionTTL > 0 {
		sessionTTL = params.Config.Auth.SessionTTL
	}

	return &sessionService{
		sessionRepo: params.SessionRepo,
		userRepo:    params.UserRepo,
		hasher:      params.Hasher,
		tokens:      params.Tokens,
		clock:       params.Clock,
		sessionTTL:  sessionTTL,
		logger:      params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// newSessionToken generates an opaque session token from 32 random
// bytes, base64url encoded.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random session token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashSessionToken returns the hex SHA-256 of a raw session token. Only
// the hash is persisted or used for lookups.
func hashSessionToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// Login verifies credentials and establishes a session. The password
// check runs even for enabled-status failures so timing does not reveal
// account state.
func (srv *sessionService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		}

		return nil, errors.Wrap(err, "failed to look up user for login")
	}

	if user.Credential == nil || !srv.hasher.Check(input.Password, user.Credential.PasswordHash) {
		srv.log(ctx).Info("Login rejected, bad credentials", slog.String("userID", user.ID.String()))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	// Status is only disclosed after the password has been verified.
	switch user.Status {
	case entity.UserStatusPending:
		return nil, errors.WithStack(domainerrors.ErrAccountNotApproved)
	case entity.UserStatusDisabled:
		return nil, errors.WithStack(domainerrors.ErrAccountDisabled)
	}

	output, err := srv.EstablishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.String("userID", user.ID.String()))

	return output, nil
}

// EstablishSession creates a session for an already-verified user and
// issues the companion access token.
func (srv *sessionService) EstablishSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	raw, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := srv.clock.Now()
	session := &entity.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashSessionToken(raw),
		ExpiresAt: now.Add(srv.sessionTTL),
		CreatedAt: now,
	}

	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	accessToken, err := srv.tokens.GenerateAccessToken(user.ID, user.SuperAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.LoginOutput{
		SessionToken: raw,
		AccessToken:  accessToken,
		ExpiresAt:    session.ExpiresAt,
		User:         user,
	}, nil
}

// Logout destroys the session and reports the user's language so the
// delivery layer can carry the preference across the logged-out visit.
// Destroying an unknown session is a successful logout.
func (srv *sessionService) Logout(ctx context.Context, sessionToken string) (string, error) {
	language := ""
	if user, err := srv.CurrentIdentity(ctx, sessionToken); err != nil {
		return "", err
	} else if user != nil {
		language = user.Language
	}

	if err := srv.sessionRepo.DeleteByTokenHash(ctx, hashSessionToken(sessionToken)); err != nil {
		return "", errors.Wrap(err, "failed to destroy session")
	}

	srv.log(ctx).Debug("Session destroyed")

	return language, nil
}

// CurrentIdentity resolves a session token to its user. A missing or
// expired session yields a nil user with no error; guests are a normal
// state, not a failure.
func (srv *sessionService) CurrentIdentity(ctx context.Context, sessionToken string) (*entity.User, error) {
	if sessionToken == "" {
		return nil, nil
	}

	session, err := srv.sessionRepo.FindByTokenHash(ctx, hashSessionToken(sessionToken))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to look up session")
	}

	if session.Expired(srv.clock.Now()) {
		return nil, nil
	}

	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load session user")
	}

	if !user.Enabled() {
		// An account disabled mid-session loses it on the next check.
		return nil, nil
	}

	return user, nil
}

// ResolveSession translates an opaque session identifier into an
// identity snapshot. Unknown sessions produce an invalid snapshot, never
// an error.
func (srv *sessionService) ResolveSession(ctx context.Context, sessionID string) (*usecase.SessionIdentity, error) {
	user, err := srv.CurrentIdentity(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &usecase.SessionIdentity{Valid: false}, nil
	}

	return &usecase.SessionIdentity{
		Valid:       true,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		SuperAdmin:  user.SuperAdmin,
	}, nil
}
