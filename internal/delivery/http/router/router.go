// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"hearth/internal/delivery/http/middleware"
	"hearth/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	RecoveryHandler     *handler.RecoveryHandler
	RegistrationHandler *handler.RegistrationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	recoveryHandler     *handler.RecoveryHandler
	registrationHandler *handler.RegistrationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		recoveryHandler:     params.RecoveryHandler,
		registrationHandler: params.RegistrationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Every route sees the caller's identity when a session is present;
	// none of the auth routes require one up front.
	e.Use(r.authMiddleware.LoadIdentity)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/session-state", r.authHandler.SessionState)
		authGroup.GET("/session-user", r.authHandler.SessionUser)

		authGroup.POST("/invite", r.registrationHandler.RequestInvite)
		authGroup.GET("/register", r.registrationHandler.BeginRegistration)
		authGroup.POST("/register", r.registrationHandler.CompleteRegistration)

		authGroup.POST("/password-recovery", r.recoveryHandler.RequestReset)
		authGroup.GET("/password-recovery/validate", r.recoveryHandler.ValidateToken)
		authGroup.POST("/password-recovery/reset", r.recoveryHandler.ResetPassword)
	}

	// Administrative invite management.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.RequireAuthenticated)
	adminGroup.Use(r.authMiddleware.RequireSuperAdmin)
	{
		adminGroup.POST("/invites", r.registrationHandler.CreateInvite)
		adminGroup.GET("/invites/:id/qr", r.registrationHandler.InviteQR)
	}
}
