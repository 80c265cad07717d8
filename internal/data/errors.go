package data

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidValue      = errors.New("invalid value")
	ErrFieldOverflow     = errors.New("field overflow")
	ErrIOFailure         = errors.New("io failure")
	ErrLoadFailure       = errors.New("load failure")
)

// ValidationError reports which input array failed a check and where.
// Index is the flat element index, or -1 when the failure is about the array as a whole.
type ValidationError struct {
	Kind   error
	Array  string
	Index  int
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Array, e.Detail)
	}
	return fmt.Sprintf("%s: %s[%d]: %s", e.Kind, e.Array, e.Index, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func newValidationError(kind error, array string, index int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind:   kind,
		Array:  array,
		Index:  index,
		Detail: fmt.Sprintf(format, args...),
	}
}

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrShapeMismatch, "ShapeMismatch"},
	{ErrInvalidCoordinate, "InvalidCoordinate"},
	{ErrInvalidValue, "InvalidValue"},
	{ErrFieldOverflow, "FieldOverflow"},
	{ErrIOFailure, "IOFailure"},
	{ErrLoadFailure, "LoadFailure"},
}

// ErrorKind names the failure category of err, "" for nil and "Unknown" for
// errors outside the conversion taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
