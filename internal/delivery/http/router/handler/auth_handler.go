// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"hearth/internal/delivery/http/middleware"
	"hearth/internal/delivery/http/response"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// languageCookieName keeps the user's language preference across a
// logged-out visit.
const languageCookieName = "hearth_lang"

// AuthHandler holds dependencies for login and session handlers.
type AuthHandler struct {
	sessionUC usecase.SessionUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(sessionUC usecase.SessionUsecase) *AuthHandler {
	return &AuthHandler{sessionUC: sessionUC}
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return errors.WithStack(domainerrors.ErrAlreadyAuthenticated)
	}

	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.sessionUC.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	setSessionCookie(c, output.SessionToken, output.ExpiresAt)

	return response.Success(c, http.StatusOK, newLoginView(output), "Login successful")
}

// Logout destroys the caller's session. The user's language preference
// survives in a cookie so the next visit renders in it.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.SessionTokenFromRequest(c)

	language, err := h.sessionUC.Logout(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	clearSessionCookie(c)
	if language != "" {
		c.SetCookie(&http.Cookie{
			Name:     languageCookieName,
			Value:    language,
			Path:     "/",
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			SameSite: http.SameSiteLaxMode,
		})
	}

	return response.Success(c, http.StatusOK, map[string]string{"language": language}, "Logout successful")
}

// SessionState reports whether the caller holds a live session.
func (h *AuthHandler) SessionState(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusOK, map[string]any{"loggedIn": false})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"loggedIn": true,
		"userName": user.Username,
	})
}

// SessionUser translates an opaque session identifier into an identity
// snapshot for third-party collaborators. An unknown session is a valid
// answer, not an error.
func (h *AuthHandler) SessionUser(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")

	identity, err := h.sessionUC.ResolveSession(c.Request().Context(), sessionID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Raw body, no envelope; external callers parse this shape directly.
	return c.JSON(http.StatusOK, identity)
}

func setSessionCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
