package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every *ShapeError.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError describes tensors whose ranks or dimensions do not agree for an
// operation. Tensor operations panic with a *ShapeError; callers that expose
// an error-returning API convert it back with Recover.
type ShapeError struct {
	Op      string // Operation that rejected its operands (e.g. "matmul")
	Details string // Offending shapes
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrShapeMismatch, e.Details)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// Mismatch panics with a *ShapeError for op.
func Mismatch(op, format string, args ...any) {
	panic(&ShapeError{Op: op, Details: fmt.Sprintf(format, args...)})
}

// Recover stores a recovered *ShapeError in *err. Any other panic value is
// re-raised. It must be deferred directly:
//
//	func f() (err error) {
//	    defer tensor.Recover(&err)
//	    ...
//	}
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	se, ok := r.(*ShapeError)
	if !ok {
		panic(r)
	}
	*err = se
}
