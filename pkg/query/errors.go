package query

import "fmt"

// InvalidInputError wraps a client-caused validation failure. Callers at the
// HTTP boundary map it to 400 Bad Request.
type InvalidInputError struct {
	msg string
}

func (e *InvalidInputError) Error() string { return e.msg }

// invalidInput builds an InvalidInputError with a formatted message.
func invalidInput(format string, args ...any) error {
	return &InvalidInputError{msg: fmt.Sprintf(format, args...)}
}

// NewInvalidInputError lets callers outside the package (the HTTP layer)
// report request-shape problems that never reach Service's own validation,
// such as a query parameter that fails to parse as an integer.
func NewInvalidInputError(format string, args ...any) error {
	return invalidInput(format, args...)
}
