package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the client-side failure taxonomy.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network failure")
)

// AppError represents a structured application error with the originating
// HTTP status, when one exists. Network failures carry a zero status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthorized creates an error for a missing or rejected credential.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// NotFound creates an error for a resource that no longer exists server-side.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Validation creates an error for input rejected before or by the server.
// The message is preserved verbatim so it can be surfaced to the user.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Server creates an error for a 5xx response.
func Server(status int, message string) *AppError {
	return &AppError{
		Code:    "SERVER_ERROR",
		Message: message,
		Status:  status,
		Err:     ErrServer,
	}
}

// Network creates an error for a transport-level failure (no HTTP response).
func Network(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_FAILURE",
		Message: "request did not reach the server",
		Err:     errors.Join(ErrNetwork, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Message returns the user-facing message for an error, falling back to
// Error() when the error is not an AppError.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// IsTransient reports whether the error is worth retrying by a caller:
// server errors and network failures are transient, the rest are not.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServer) || errors.Is(err, ErrNetwork)
}
