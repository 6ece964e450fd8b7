// Package errors defines the application error taxonomy. Every failure
// the core can produce is a typed value here; the delivery layer maps
// them to responses and decides the user-facing wording.
package errors

import (
	"net/http"
	"sort"
	"strings"

	"hearth/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Token lifecycle errors. NotFound also covers already-consumed
	// tokens: once cleared, a replayed token is indistinguishable from
	// one that never existed.
	ErrTokenMalformed = NewBaseError(
		http.StatusBadRequest,
		"TOKEN_MALFORMED",
		"the token is structurally invalid",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusGone,
		"TOKEN_EXPIRED",
		"the token has expired",
		"",
	)

	ErrTokenNotFound = NewBaseError(
		http.StatusNotFound,
		"TOKEN_NOT_FOUND",
		"no matching token on record",
		"",
	)

	// Authentication errors.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"email or password is incorrect",
		"",
	)

	ErrAccountNotApproved = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_NOT_APPROVED",
		"the account is awaiting administrator approval",
		"",
	)

	ErrAccountDisabled = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_DISABLED",
		"the account has been deactivated",
		"",
	)

	ErrAlreadyAuthenticated = NewBaseError(
		http.StatusConflict,
		"ALREADY_AUTHENTICATED",
		"already logged in, log out first",
		"",
	)

	// Registration errors.
	ErrRegistrationDisabled = NewBaseError(
		http.StatusForbidden,
		"REGISTRATION_DISABLED",
		"anonymous registration is not enabled",
		"",
	)

	ErrDuplicateEmail = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_EMAIL",
		"this email address is already registered",
		"",
	)

	ErrDuplicateUsername = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_USERNAME",
		"this username is already taken",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// User-related errors.
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"user not found",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"failed to create user",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"password processing failed",
		"",
	)

	// Transaction-related errors.
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"database transaction failed",
		"",
	)

	// General errors.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)

	ErrUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"STORE_UNAVAILABLE",
		"persistence temporarily unavailable",
		"",
	)
)

// ValidationErrors carries field-level validation failures from
// registration and password forms. It satisfies AppError so the delivery
// layer can render it like any other typed failure.
type ValidationErrors struct {
	fields map[string]string
}

// NewValidationErrors creates an empty field error collection.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{fields: make(map[string]string)}
}

// Add records a failure message for a field, keeping the first message
// per field.
func (e *ValidationErrors) Add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = message
	}
}

// Has reports whether any field failed.
func (e *ValidationErrors) Has() bool {
	return len(e.fields) > 0
}

// Fields returns a copy of the per-field messages.
func (e *ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}

	return out
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	names := make([]string, 0, len(e.fields))
	for field := range e.fields {
		names = append(names, field)
	}
	sort.Strings(names)

	return "validation failed: " + strings.Join(names, ", ")
}

// HTTPCode returns the HTTP status code
func (e *ValidationErrors) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationErrors) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the user-friendly error message
func (e *ValidationErrors) Message() string {
	return "input validation failed"
}

// Details returns the failing fields joined for logging.
func (e *ValidationErrors) Details() string {
	return e.Error()
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
