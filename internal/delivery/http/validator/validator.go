// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	domainerrors "hearth/internal/domain/errors"
)

type echoValidator struct {
	validate *playground.Validate
}

// New creates the request validator wired into the Echo server.
func New() echo.Validator {
	return &echoValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks a bound request struct against its validate tags and
// converts failures into the domain's field error collection.
func (v *echoValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return err
	}

	verr := domainerrors.NewValidationErrors()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), "failed rule: "+fe.Tag())
	}

	return verr
}
