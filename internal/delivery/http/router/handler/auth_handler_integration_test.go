package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hearth/internal/delivery/http/middleware"
	"hearth/internal/delivery/http/validator"
	"hearth/internal/domain/entity"
	"hearth/internal/mocks"
	"hearth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Integration(t *testing.T) {
	sessionUC := new(mocks.MockSessionUsecase)
	handler := NewAuthHandler(sessionUC)

	output := &usecase.LoginOutput{
		SessionToken: "opaque-session-token",
		AccessToken:  "jwt-access-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		User: &entity.User{
			GUID:     "guid-1",
			Email:    "ada@example.com",
			Username: "ada",
			Status:   entity.UserStatusEnabled,
		},
	}
	sessionUC.On("Login", mock.Anything, mock.MatchedBy(func(input *usecase.LoginInput) bool {
		return input.Email == "ada@example.com" && input.Password == "correct horse"
	})).Return(output, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"correct horse"}`)

	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Session travels as an HttpOnly cookie, never in a header.
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "opaque-session-token", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	assert.Contains(t, rec.Body.String(), `"userName":"ada"`)
	sessionUC.AssertExpectations(t)
}

func TestAuthHandler_Login_AlreadyAuthenticated(t *testing.T) {
	sessionUC := new(mocks.MockSessionUsecase)
	handler := NewAuthHandler(sessionUC)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"whatever"}`)
	c.Set(middleware.ContextKeyUser, &entity.User{Username: "ada"})

	err := handler.Login(c)
	require.Error(t, err)
	sessionUC.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_SessionState_Integration(t *testing.T) {
	handler := NewAuthHandler(new(mocks.MockSessionUsecase))

	t.Run("guest", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/auth/session-state", "")

		require.NoError(t, handler.SessionState(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"loggedIn":false`)
		assert.NotContains(t, rec.Body.String(), "userName")
	})

	t.Run("logged in", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/auth/session-state", "")
		c.Set(middleware.ContextKeyUser, &entity.User{Username: "ada"})

		require.NoError(t, handler.SessionState(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"loggedIn":true`)
		assert.Contains(t, rec.Body.String(), `"userName":"ada"`)
	})
}

func TestAuthHandler_SessionUser_Integration(t *testing.T) {
	sessionUC := new(mocks.MockSessionUsecase)
	handler := NewAuthHandler(sessionUC)

	// Unknown session is a plain Valid=false body for external callers.
	sessionUC.On("ResolveSession", mock.Anything, "no-such-session").
		Return(&usecase.SessionIdentity{Valid: false}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/auth/session-user?sessionId=no-such-session", "")

	require.NoError(t, handler.SessionUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
	sessionUC.AssertExpectations(t)
}

func TestRecoveryHandler_RequestReset_Integration(t *testing.T) {
	resetUC := new(mocks.MockPasswordResetUsecase)
	handler := NewRecoveryHandler(resetUC)

	resetUC.On("RequestReset", mock.Anything, mock.MatchedBy(func(input *usecase.RequestResetInput) bool {
		return input.Email == "ada@example.com"
	})).Return(nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/password-recovery",
		`{"email":"ada@example.com"}`)

	require.NoError(t, handler.RequestReset(c))

	// Accepted regardless of whether the address has an account.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	resetUC.AssertExpectations(t)
}
