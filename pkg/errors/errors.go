package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation error kinds. Every failed remote call is reported as exactly one of
// these, regardless of the status code or transport failure behind it.
var (
	ErrAuth   = errors.New("authentication failed")
	ErrFetch  = errors.New("failed to fetch users")
	ErrUpdate = errors.New("failed to update user")
	ErrDelete = errors.New("failed to delete user")

	// ErrInvalidState is returned when an action is issued in a controller
	// state that does not allow it.
	ErrInvalidState = errors.New("action not allowed in current state")
)

// OperationError wraps an operation kind with the underlying cause.
type OperationError struct {
	Kind error
	Err  error
}

// NewOperationError creates a new operation error of the given kind.
func NewOperationError(kind, err error) *OperationError {
	return &OperationError{Kind: kind, Err: err}
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Kind returns a stable identifier for the error, used by snapshots and HTTP bodies.
func Kind(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation_error"
	case errors.Is(err, ErrAuth):
		return "auth_error"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	case errors.Is(err, ErrUpdate):
		return "update_error"
	case errors.Is(err, ErrDelete):
		return "delete_error"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal_error"
	}
}

// Message maps an error to the single user-visible message for its kind.
func Message(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrAuth):
		return "Invalid credentials"
	case errors.Is(err, ErrFetch):
		return "Error fetching users"
	case errors.Is(err, ErrUpdate):
		return "Error updating user"
	case errors.Is(err, ErrDelete):
		return "Error deleting user"
	case errors.Is(err, ErrInvalidState):
		return "That action is not available right now"
	default:
		return "An internal error occurred"
	}
}

// HTTPStatus returns the status code the HTTP surface answers with for err.
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrFetch), errors.Is(err, ErrUpdate), errors.Is(err, ErrDelete):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
