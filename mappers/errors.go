package mappers

import (
	"errors"
	"fmt"
)

// ErrMalformedRow is wrapped by a ResourceError when a data row does not
// carry the number of fields its header announced.
var ErrMalformedRow = errors.New("malformed row")

// ResourceError reports a reference table that could not be opened, read or
// parsed. A mapper that fails with a ResourceError is never returned to the
// caller.
type ResourceError struct {
	Table string
	// Line the failing record starts on, or its record number for sources
	// without line information such as SQL. 0 when no row is involved.
	Line int
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("reference table %s, line %d: %v", e.Table, e.Line, e.Err)
	}
	return fmt.Sprintf("reference table %s: %v", e.Table, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// TypeError is returned by Map when the input is neither a code nor an
// iterable of codes.
type TypeError struct {
	Got string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("wrong input type: expecting string or iterable of strings, got %s", e.Got)
}

func typeErrorOf(v any) *TypeError {
	if v == nil {
		return &TypeError{Got: "nil"}
	}
	return &TypeError{Got: fmt.Sprintf("%T", v)}
}
