package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the order no longer exists server-side.
	ErrNotFound = errors.New("order not found")
	// ErrUnavailable: the backend could not be reached or answered 5xx.
	// Always recoverable; callers keep their state and retry.
	ErrUnavailable = errors.New("order service unavailable")
)

// ValidationError is a local precondition failure (empty cart, missing
// location, malformed payload). Never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
