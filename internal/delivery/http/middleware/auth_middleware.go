package middleware

import (
	"strings"

	"hearth/internal/delivery/http/response"
	"hearth/internal/domain/entity"
	"hearth/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName carries the opaque session token between requests.
	SessionCookieName = "hearth_session"

	// ContextKeyUser is the echo.Context key for the resolved user.
	ContextKeyUser = "currentUser"
	// ContextKeySessionToken is the echo.Context key for the raw session token.
	ContextKeySessionToken = "sessionToken"
)

// AuthMiddleware resolves the caller's session into a user identity.
type AuthMiddleware struct {
	sessionUC usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionUC usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{sessionUC: sessionUC}
}

// LoadIdentity resolves the session token, if any, and stores the user
// on the context. Guests pass through with no user set; handlers that
// need authentication stack RequireAuthenticated on top.
func (m *AuthMiddleware) LoadIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := SessionTokenFromRequest(c)
		if token == "" {
			return next(c)
		}

		c.Set(ContextKeySessionToken, token)

		user, err := m.sessionUC.CurrentIdentity(c.Request().Context(), token)
		if err != nil {
			return err
		}
		if user != nil {
			c.Set(ContextKeyUser, user)
		}

		return next(c)
	}
}

// RequireAuthenticated rejects guests. It must run after LoadIdentity.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "login required")
		}

		return next(c)
	}
}

// RequireSuperAdmin rejects everyone but superadmins. It must run after
// RequireAuthenticated.
func (m *AuthMiddleware) RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.SuperAdmin {
			return response.Forbidden(c, "FORBIDDEN", "administrator access required")
		}

		return next(c)
	}
}

// CurrentUser returns the resolved user for the request, or nil for a guest.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextKeyUser).(*entity.User)

	return user
}

// SessionTokenFromRequest extracts the session token from the session
// cookie or, failing that, a Bearer authorization header.
func SessionTokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}
