package checkout

import "fmt"

// ValidationError is a locally detected problem with the checkout attempt.
// It is surfaced to the user before any network call and never mutates the
// cart.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
