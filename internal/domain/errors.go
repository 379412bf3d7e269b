package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist on the
	// platform (or no cart is associated with the current identity).
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a mutation was submitted with a stale version.
	// The caller must re-fetch the resource and retry; this layer never
	// retries on its own.
	ErrConflict = errors.New("version conflict")
	// ErrUnauthorized indicates a customer-scoped operation was attempted
	// without an authenticated client handle.
	ErrUnauthorized = errors.New("unauthorized action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("a customer with this email already exists")
)

// PlatformError preserves the structured error body returned by the
// remote platform: {statusCode, message, errors:[{code, field?, message}]}.
type PlatformError struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     []PlatformErrorItem `json:"errors,omitempty"`
}

type PlatformErrorItem struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *PlatformError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("platform: status %d", e.StatusCode)
}

// HasCode reports whether the structured error list contains the given
// error code, e.g. "DuplicateField".
func (e *PlatformError) HasCode(code string) bool {
	for _, item := range e.Errors {
		if item.Code == code {
			return true
		}
	}
	return false
}
