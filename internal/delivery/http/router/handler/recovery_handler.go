package handler

import (
	"net/http"

	"hearth/internal/delivery/http/response"
	"hearth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RecoveryHandler holds dependencies for password-recovery handlers.
type RecoveryHandler struct {
	resetUC usecase.PasswordResetUsecase
}

// NewRecoveryHandler is the constructor for RecoveryHandler, injected by Fx.
func NewRecoveryHandler(resetUC usecase.PasswordResetUsecase) *RecoveryHandler {
	return &RecoveryHandler{resetUC: resetUC}
}

// RequestReset starts password recovery for an email address. The
// response is the same whether or not the address has an account.
func (h *RecoveryHandler) RequestReset(c echo.Context) error {
	var input usecase.RequestResetInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recovery input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.resetUC.RequestReset(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusAccepted, nil,
		"If the address has an account, a recovery mail is on its way")
}

// ValidateToken checks a recovery link before the user types a new
// password, so a dead link fails fast instead of after form submission.
func (h *RecoveryHandler) ValidateToken(c echo.Context) error {
	guid := c.QueryParam("guid")
	token := c.QueryParam("token")
	if guid == "" || token == "" {
		return response.BindingError(c, "INVALID_INPUT", "guid and token are required")
	}

	if err := h.resetUC.ValidateResetToken(c.Request().Context(), guid, token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"valid": true}, "Token is valid")
}

// ResetPassword consumes the recovery token and sets the new password.
func (h *RecoveryHandler) ResetPassword(c echo.Context) error {
	var input usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.resetUC.ResetPassword(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password has been reset")
}
