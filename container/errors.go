package container

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozenMutation is returned by any mutating call on a frozen
	// container. Use MutableCopy to obtain a mutable copy.
	ErrFrozenMutation = errors.New("container is frozen")
	// ErrInvalidValue is returned when a nil value or a non-finite
	// number (NaN, ±Inf) is inserted.
	ErrInvalidValue = errors.New("invalid value")
	// ErrCycleViolation is returned when an insertion would make a
	// container reachable from itself.
	ErrCycleViolation = errors.New("membership cycle")
	// ErrCapacityExceeded is returned by Powerset when the receiver is
	// larger than the configured safety bound.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

func frozenErr(kind Kind, op string) error {
	return fmt.Errorf("%w: %s.%s, use MutableCopy for a mutable copy", ErrFrozenMutation, kind, op)
}
