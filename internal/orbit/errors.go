package orbit

import (
	"errors"
	"fmt"
)

// Domain errors for body construction.
var (
	// ErrInvalidBody indicates a non-positive mass or a negative orbital radius.
	ErrInvalidBody = errors.New("orbit: invalid body")

	// ErrDuplicateBody indicates two roster entries share a name.
	ErrDuplicateBody = errors.New("orbit: duplicate body name")
)

// BodyError wraps a construction failure with the offending body and field.
type BodyError struct {
	Name    string
	Field   string
	Value   float64
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s: body %q: %s = %g", e.Wrapped, e.Name, e.Field, e.Value)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
