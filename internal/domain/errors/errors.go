package errors

import (
	"net/http"

	"authsvc/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional, never sent for 401/403/5xx)
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
	if e.details != "" {
		return e.message + ": " + e.details
	}

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

const (
	unauthorizedCode    = "UNAUTHORIZED"
	unauthorizedMessage = "authentication required"
)

// Predefined error types
var (
	// Account errors
	ErrDuplicateEmail = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_EXISTS",
		"email is already registered",
		"",
	)

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// The two cases must stay indistinguishable to callers.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"invalid email or password",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"password could not be processed",
		"",
	)

	// Token errors. All three share one external shape; only Details differs,
	// and Details is never written to a 401 response.
	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		unauthorizedCode,
		unauthorizedMessage,
		"invalid token",
	)

	ErrExpiredToken = NewBaseError(
		http.StatusUnauthorized,
		unauthorizedCode,
		unauthorizedMessage,
		"expired token",
	)

	ErrUnknownSubject = NewBaseError(
		http.StatusUnauthorized,
		unauthorizedCode,
		unauthorizedMessage,
		"token subject no longer exists",
	)

	ErrTokenIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_ISSUE_FAILED",
		"session token could not be issued",
		"",
	)

	// Storage errors
	ErrPersistence = NewBaseError(
		http.StatusInternalServerError,
		"PERSISTENCE_FAILED",
		"storage operation failed",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// IsUnauthorized reports whether err is one of the token failures that the
// gateway collapses into a single authorization rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrUnknownSubject)
}

// PersistenceError is a store failure unrelated to email uniqueness.
// It matches ErrPersistence with errors.Is and unwraps to the store error.
type PersistenceError struct {
	err     error
	details string
}

// NewPersistenceError wraps a store error as a PersistenceError.
func NewPersistenceError(err error, details string) AppError {
	return &PersistenceError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap exposes the underlying store error.
func (e *PersistenceError) Unwrap() error {
	return e.err
}

// Is makes errors.Is(err, ErrPersistence) hold for every PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// HTTPCode returns the HTTP status code
func (e *PersistenceError) HTTPCode() int {
	return ErrPersistence.HTTPCode()
}

// ErrorCode returns the business error code
func (e *PersistenceError) ErrorCode() string {
	return ErrPersistence.ErrorCode()
}

// Message returns the user-friendly error message
func (e *PersistenceError) Message() string {
	return ErrPersistence.Message()
}

// Details returns detailed error information
func (e *PersistenceError) Details() string {
	return e.details
}
