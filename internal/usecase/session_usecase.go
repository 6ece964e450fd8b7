package usecase

import (
	"context"
	"time"

	"hearth/internal/domain/entity"
)

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginOutput returns the established session after a successful login.
// SessionToken is the opaque server-side session handle; AccessToken is
// the short-lived JWT for stateless request authentication.
type LoginOutput struct {
	SessionToken string
	AccessToken  string
	ExpiresAt    time.Time
	User         *entity.User
}

// SessionIdentity is the snapshot handed to third-party callers that
// translate a session identifier into a user identity. Valid is false
// for any unknown or expired session; absence is an expected outcome,
// not a fault.
type SessionIdentity struct {
	Valid       bool   `json:"valid"`
	Username    string `json:"userName,omitempty"`
	DisplayName string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	SuperAdmin  bool   `json:"superadmin,omitempty"`
}

// SessionUsecase authenticates credentials and manages sessions.
type SessionUsecase interface {
	// Login verifies credentials and establishes a session. It fails with
	// ErrInvalidCredentials, ErrAccountNotApproved or ErrAccountDisabled.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout destroys the session. It is idempotent and returns the
	// user's language preference so the delivery layer can keep it for
	// the next visit.
	Logout(ctx context.Context, sessionToken string) (language string, err error)

	// CurrentIdentity resolves a session token to its user, or nil for a
	// guest.
	CurrentIdentity(ctx context.Context, sessionToken string) (*entity.User, error)

	// ResolveSession translates an opaque session identifier into an
	// identity snapshot for third-party collaborators.
	ResolveSession(ctx context.Context, sessionID string) (*SessionIdentity, error)

	// EstablishSession creates a session for an already-verified user.
	// Registration uses it for auto-login after account creation.
	EstablishSession(ctx context.Context, user *entity.User) (*LoginOutput, error)
}
