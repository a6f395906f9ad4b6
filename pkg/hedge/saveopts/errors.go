package saveopts

import "fmt"

// ValidationError reports a rejected field. Err is one of
// errors.ErrInvalidVariant or errors.ErrOutOfRange.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (%v)", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
