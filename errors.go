package proposalpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation failure conditions.
var (
	ErrNilDocument  = errors.New("proposalpdf: document is nil")
	ErrNoOutput     = errors.New("proposalpdf: no output destination")
	ErrInvalidParam = errors.New("proposalpdf: invalid parameter")
)

// GenError represents an error that occurred during a specific generation
// step. It wraps an underlying error and includes the step name for context.
type GenError struct {
	Op  string // step name, e.g. "compose-cover", "merge"
	Err error  // underlying error
}

func (e *GenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("proposalpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("proposalpdf.%s: unknown error", e.Op)
}

func (e *GenError) Unwrap() error {
	return e.Err
}

// newGenError creates a new GenError wrapping the given error with step
// context.
func newGenError(op string, err error) *GenError {
	return &GenError{Op: op, Err: err}
}
