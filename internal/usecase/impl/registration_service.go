package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "hearth/internal/delivery/context"
	"hearth/internal/domain/entity"
	domainerrors "hearth/internal/domain/errors"
	"hearth/internal/domain/repository"
	"hearth/internal/domain/service"
	"hearth/internal/domain/token"
	"hearth/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	inviteFlow usecase.InviteUsecase
	sessions   usecase.SessionUsecase
	hasher     service.PasswordHasher
	settings   service.SettingsProvider
	clock      service.Clock
	validate   *validator.Validate
	logger     *slog.Logger
}

// RegistrationServiceParams holds dependencies for the registration service, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	InviteFlow usecase.InviteUsecase
	Sessions   usecase.SessionUsecase
	Hasher     service.PasswordHasher
	Settings   service.SettingsProvider
	Clock      service.Clock
	Logger     *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		inviteFlow: params.InviteFlow,
		sessions:   params.Sessions,
		hasher:     params.Hasher,
		settings:   params.Settings,
		clock:      params.Clock,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     params.Logger,
	}
}

func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// BeginRegistration resolves and validates the presented invite token
// for a guest caller.
func (srv *registrationService) BeginRegistration(ctx context.Context, presentedToken string, authenticated bool) (*entity.Invite, error) {
	if authenticated {
		return nil, errors.WithStack(domainerrors.ErrAlreadyAuthenticated)
	}

	invite, err := srv.inviteFlow.FindByToken(ctx, presentedToken)
	if err != nil {
		return nil, err
	}

	if err := srv.inviteFlow.Validate(invite, srv.clock.Now()); err != nil {
		return nil, err
	}

	return invite, nil
}

// CompleteRegistration validates the submission, then consumes the
// invite and creates the account in a single transaction. Any failure
// before the transaction commits leaves the invite unconsumed and the
// token re-presentable.
func (srv *registrationService) CompleteRegistration(ctx context.Context, input *usecase.RegistrationInput, authenticated bool) (*usecase.RegistrationOutput, error) {
	if authenticated {
		return nil, errors.WithStack(domainerrors.ErrAlreadyAuthenticated)
	}

	invite, err := srv.BeginRegistration(ctx, input.Token, authenticated)
	if err != nil {
		return nil, err
	}

	if err := srv.validateInput(ctx, input); err != nil {
		return nil, err
	}

	// The invite may outlive an account created by other means for the
	// same address.
	if _, err := srv.userRepo.FindByEmail(ctx, invite.Email); err == nil {
		return nil, errors.WithStack(domainerrors.ErrDuplicateEmail)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash registration password")
	}

	groupID := input.GroupID
	if groupID == "" {
		groupID = srv.settings.DefaultUserGroup()
	}

	// Approval policy is read at consumption time; flipping the setting
	// between invite issuance and submission takes effect here.
	needApproval := srv.settings.NeedApproval()

	status := entity.UserStatusEnabled
	if needApproval {
		status = entity.UserStatusPending
	}

	now := srv.clock.Now()
	user := &entity.User{
		ID:          uuid.New(),
		GUID:        uuid.NewString(),
		Email:       invite.Email, // The address is bound to the invite, never taken from the form.
		Username:    input.Username,
		DisplayName: strings.TrimSpace(input.FirstName + " " + input.LastName),
		Language:    invite.Language,
		GroupID:     groupID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Profile: &entity.Profile{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Title:     input.Title,
		},
		Credential: &entity.Credential{
			PasswordHash: passwordHash,
		},
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		inviteRepo := repoFactory.InviteRepo()

		// Re-resolve inside the transaction; the pre-check above ran on a
		// different connection and may be stale.
		fresh, err := inviteRepo.FindByTokenDigest(ctx, token.Digest(input.Token))
		if err != nil {
			if errors.Is(err, repository.ErrInviteNotFound) {
				return errors.WithStack(domainerrors.ErrTokenNotFound)
			}

			return errors.Wrap(err, "failed to re-resolve invite")
		}

		if err := srv.inviteFlow.Consume(ctx, inviteRepo, fresh); err != nil {
			return err
		}

		if err := repoFactory.UserRepo().Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("inviteID", invite.ID.String()), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User registered",
		slog.String("userID", user.ID.String()), slog.Bool("pendingApproval", needApproval))

	output := &usecase.RegistrationOutput{
		User:            user,
		PendingApproval: needApproval,
	}

	if !needApproval {
		// Auto-login is best effort. The account exists either way; a
		// session failure just sends the user to the login form.
		session, err := srv.sessions.EstablishSession(ctx, user)
		if err != nil {
			srv.log(ctx).Error("Failed to establish session after registration",
				slog.String("userID", user.ID.String()), slog.Any("error", err))
		} else {
			output.Session = session
		}
	}

	return output, nil
}

// validateInput runs struct validation plus the checks the tags cannot
// express: password confirmation and uniqueness.
func (srv *registrationService) validateInput(ctx context.Context, input *usecase.RegistrationInput) error {
	verr := domainerrors.NewValidationErrors()

	if err := srv.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.Wrap(err, "failed to validate registration input")
		}

		for _, fe := range fieldErrs {
			verr.Add(fieldName(fe), validationMessage(fe))
		}
	}

	if input.Password != input.PasswordConfirm {
		verr.Add("passwordConfirm", "passwords do not match")
	}

	// Uniqueness pre-checks. The database constraints remain the source
	// of truth; these just give field-level messages for the common case.
	if input.Username != "" {
		if _, err := srv.userRepo.FindByUsername(ctx, input.Username); err == nil {
			return errors.WithStack(domainerrors.ErrDuplicateUsername)
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check username uniqueness")
		}
	}

	if verr.Has() {
		return verr
	}

	return nil
}

// fieldName maps a failed validation back to the JSON field name.
func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Username":
		return "username"
	case "GroupID":
		return "groupId"
	case "Password":
		return "password"
	case "PasswordConfirm":
		return "passwordConfirm"
	case "FirstName":
		return "firstName"
	case "LastName":
		return "lastName"
	case "Title":
		return "title"
	case "Token":
		return "token"
	default:
		return fe.Field()
	}
}

// validationMessage renders a short human message for a failed rule.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "too short, minimum length is " + fe.Param()
	case "max":
		return "too long, maximum length is " + fe.Param()
	case "alphanum":
		return "only letters and digits are allowed"
	case "email":
		return "must be a valid email address"
	default:
		return "invalid value"
	}
}
