// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

// Sentinel errors shared across packages. Services wrap these with operation
// context; handlers map them to HTTP at the boundary via JSONError.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream request failed")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is an error that already knows its HTTP representation. The body
// is always {"error": <message>} plus any Extra fields; upstream detail never
// reaches a client.
type AppError struct {
	Err     error
	Message string
	Status  int
	Extra   map[string]any
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int) *AppError {
	return &AppError{Err: err, Message: message, Status: status}
}

func (e *AppError) WithExtra(key string, value any) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden)
}

// ForbiddenRolesError carries the role set that would have been accepted.
// The set is diagnostic only; it describes the endpoint, not the caller.
func ForbiddenRolesError(required []string) *AppError {
	return ForbiddenError("forbidden").WithExtra("required_roles", required)
}

// UpstreamError converts a failed store or package-index call into a generic
// 502 body. The message names the failed operation, never the upstream
// response.
func UpstreamError(message string) *AppError {
	return NewAppError(ErrUpstream, message, http.StatusBadGateway)
}

func MissingTokenError() *AppError {
	return NewAppError(ErrUnauthorized, "missing token", http.StatusUnauthorized)
}

func InvalidTokenError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid or expired token",
		http.StatusUnauthorized,
	)
}
