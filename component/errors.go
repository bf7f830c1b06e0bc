package component

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	ErrNoAccount       = errors.New("no active account")
	ErrMismatchedInput = errors.New("mismatched input")
)

// PanicError carries a value recovered from a panicking collaborator
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return Message(e.Value)
}

// Message converts a failure value to the text shown to the user.
// nil becomes "null"; values that are neither errors, strings nor
// Stringers use their default formatting.
func Message(v any) string {
	switch e := v.(type) {
	case nil:
		return "null"
	case *PanicError:
		return Message(e.Value)
	case error:
		return e.Error()
	case string:
		return e
	case fmt.Stringer:
		return e.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func recovered(r any) error {
	if _, ok := r.(*runtime.PanicNilError); ok {
		r = nil
	}
	return &PanicError{Value: r}
}
