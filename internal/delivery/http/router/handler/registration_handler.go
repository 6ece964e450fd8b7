package handler

import (
	"net/http"

	"hearth/internal/delivery/http/middleware"
	"hearth/internal/delivery/http/response"
	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RegistrationHandler holds dependencies for invite and registration handlers.
type RegistrationHandler struct {
	inviteUC       usecase.InviteUsecase
	registrationUC usecase.RegistrationUsecase
}

// NewRegistrationHandler is the constructor for RegistrationHandler, injected by Fx.
func NewRegistrationHandler(inviteUC usecase.InviteUsecase, registrationUC usecase.RegistrationUsecase) *RegistrationHandler {
	return &RegistrationHandler{
		inviteUC:       inviteUC,
		registrationUC: registrationUC,
	}
}

// RequestInvite lets a guest request their own registration invite.
// Gated by the anonymousRegistration setting.
func (h *RegistrationHandler) RequestInvite(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return errors.WithStack(domainerrors.ErrAlreadyAuthenticated)
	}

	var input usecase.CreateInviteInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid invite input")
	}
	input.Source = entity.InviteSourceSelf
	if err := c.Validate(&input); err != nil {
		return err
	}

	if _, err := h.inviteUC.CreateOrRefreshInvite(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	// The invite token travels only by mail for self-service requests.
	return response.Success(c, http.StatusAccepted, nil, "Registration mail is on its way")
}

// CreateInvite lets an administrator invite an email address. The
// response carries the token so the admin can relay the link directly.
func (h *RegistrationHandler) CreateInvite(c echo.Context) error {
	var input usecase.CreateInviteInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid invite input")
	}
	input.Source = entity.InviteSourceAdmin
	if err := c.Validate(&input); err != nil {
		return err
	}

	invite, err := h.inviteUC.CreateOrRefreshInvite(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newInviteView(invite, true), "Invite created")
}

// InviteQR renders an admin-issued invite's registration link as a PNG
// QR code.
func (h *RegistrationHandler) InviteQR(c echo.Context) error {
	inviteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid invite id")
	}

	png, err := h.inviteUC.RegistrationQR(c.Request().Context(), inviteID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// BeginRegistration resolves an invite token into the registration
// context the form needs: most importantly, the bound email address.
func (h *RegistrationHandler) BeginRegistration(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.BindingError(c, "INVALID_INPUT", "token is required")
	}

	invite, err := h.registrationUC.BeginRegistration(c.Request().Context(), token, middleware.CurrentUser(c) != nil)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newInviteView(invite, false), "Invite is valid")
}

// CompleteRegistration turns a valid invite and a submission into an
// account. When the deployment auto-logs-in new users the session is
// established in the same request.
func (h *RegistrationHandler) CompleteRegistration(c echo.Context) error {
	var input usecase.RegistrationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	// Tag-level validation runs again inside the flow together with the
	// checks tags cannot express; binding-level validation here just
	// fails the obviously broken submissions early.
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.registrationUC.CompleteRegistration(c.Request().Context(), &input, middleware.CurrentUser(c) != nil)
	if err != nil {
		return errors.WithStack(err)
	}

	data := map[string]any{
		"user":            newUserView(output.User),
		"pendingApproval": output.PendingApproval,
	}

	message := "Registration complete, awaiting administrator approval"
	if output.Session != nil {
		setSessionCookie(c, output.Session.SessionToken, output.Session.ExpiresAt)
		data["session"] = newLoginView(output.Session)
		message = "Registration complete"
	}

	return response.Success(c, http.StatusCreated, data, message)
}
