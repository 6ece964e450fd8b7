package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims defines the custom claims carried by short-lived access
// tokens issued alongside a session.
type AccessClaims struct {
	UserID     uuid.UUID
	SuperAdmin bool
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating the
// stateless access tokens handed out at login. Session state itself
// lives in the session store; these tokens only spare hot paths a
// database round trip.
type TokenService interface {
	// GenerateAccessToken creates a signed access token for a user.
	GenerateAccessToken(userID uuid.UUID, superAdmin bool) (string, error)

	// ValidateAccessToken checks a token string and returns its claims.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
}
