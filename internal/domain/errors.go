package domain

import "errors"

var (
	ErrNotFound  = errors.New("todo not found")
	ErrInvalidID = errors.New("invalid todo id")
	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
)

// ValidationError carries a human-readable message for the API consumer.
// Validation failures never reach the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
