package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Ticket identifier validation
	ErrInvalidTicketID = errors.New("ticket id must be a positive integer")

	// Message validation
	ErrSenderNameRequired  = errors.New("sender name is required")
	ErrSenderEmailRequired = errors.New("sender email is required")
	ErrSenderEmailInvalid  = errors.New("sender email format is invalid")
	ErrMessageBodyRequired = errors.New("message body is required")
	ErrMessageBodyTooLong  = errors.New("message body exceeds maximum length")

	// Survey / notification validation
	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("email format is invalid")

	// Persistence
	ErrMessageNotPersisted = errors.New("message could not be persisted")

	// Generic
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrInternal     = errors.New("internal server error")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for transport responses.
// Code is the machine-readable taxonomy value sent both in REST error
// bodies and inside WebSocket Error events.
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases

// NewInvalidArgumentError wraps a validation failure on a client-supplied
// argument. Only the invoking connection sees it; the connection stays open.
func NewInvalidArgumentError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    err.Error(),
		Code:       "INVALID_ARGUMENT",
		StatusCode: 400,
	}
}

// NewPersistenceError wraps a message store write failure. The message is
// dropped and never broadcast; the caller may resubmit.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrMessageNotPersisted, err),
		Message:    "Message could not be saved. Please try again.",
		Code:       "PERSISTENCE_ERROR",
		StatusCode: 503,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
