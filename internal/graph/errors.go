package graph

import (
	"errors"
	"fmt"
)

// ErrCycle is matched by a StructuralError raised on a parent cycle.
var ErrCycle = errors.New("revision cycle")

// LookupError is returned when the storage engine cannot answer a query.
type LookupError struct {
	Op  string
	Rev Rev
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Rev, e.Err)
}

// Unwrap returns the storage error.
func (e *LookupError) Unwrap() error { return e.Err }

func lookupFailed(op string, rev Rev, err error) error {
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}
	return &LookupError{Op: op, Rev: rev, Err: err}
}

// StructuralError reports inconsistent history, such as a revision that is
// revisited while its own parents are still being resolved.
type StructuralError struct {
	Rev    Rev
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("inconsistent history at %s: %s", e.Rev, e.Reason)
}

// Is matches ErrCycle.
func (e *StructuralError) Is(target error) bool {
	return target == ErrCycle
}
