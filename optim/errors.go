package optim

import (
	"errors"
	"fmt"
)

// Sentinel errors for problem construction.
var (
	// ErrEmptyName indicates an empty variable or constraint name.
	ErrEmptyName = errors.New("optim: empty name")

	// ErrDuplicateName indicates a variable or constraint name used twice.
	ErrDuplicateName = errors.New("optim: duplicate name")

	// ErrUnknownVariable indicates an out-of-range variable index.
	ErrUnknownVariable = errors.New("optim: unknown variable")

	// ErrUnknownConstraint indicates a constraint name that is not present.
	ErrUnknownConstraint = errors.New("optim: unknown constraint")

	// ErrInvalidBounds indicates NaN bounds, lower > upper, or binary bounds outside [0, 1].
	ErrInvalidBounds = errors.New("optim: invalid bounds")

	// ErrNaNInf indicates a non-finite coefficient.
	ErrNaNInf = errors.New("optim: NaN or Inf coefficient")

	// ErrNilProblem is returned by solvers handed a nil problem.
	ErrNilProblem = errors.New("optim: nil problem")
)

// Operation tags for error wrapping.
const (
	opAddVariable      = "AddVariable"
	opVariable         = "Variable"
	opSetBounds        = "SetBounds"
	opAddConstraint    = "AddConstraint"
	opRemoveConstraint = "RemoveConstraint"
	opSetCoefficient   = "SetCoefficient"
	opSetObjective     = "SetObjective"
)

// problemErrorf wraps err with an operation tag, preserving it via %w.
func problemErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
