package consistency

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/stoich/optim"
)

// Sentinel errors.
var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("consistency: unexpected solver status")

	// ErrNilModel is returned when a nil model is passed.
	ErrNilModel = errors.New("consistency: nil model")

	// ErrBadCoefficient is returned by FindBlocked for coefficients other
	// than -1 and +1.
	ErrBadCoefficient = errors.New("consistency: sink coefficient must be -1 or +1")

	// ErrUnknownCarrier is returned for an energy carrier missing from the
	// couple table.
	ErrUnknownCarrier = errors.New("consistency: unknown energy carrier")

	// ErrAmbiguousMetabolite is returned when an alias matches several
	// metabolites of one compartment.
	ErrAmbiguousMetabolite = errors.New("consistency: ambiguous metabolite")

	// ErrNoNonBlockedReactions is returned by FindUnboundedFlux when every
	// reaction is blocked.
	ErrNoNonBlockedReactions = errors.New("consistency: no non-blocked reactions")
)

// StatusError reports a solver status the calling check cannot interpret.
type StatusError struct {
	Op     string
	Status optim.Status
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("consistency: %s: solver status %s (%s)", e.Op, e.Status, e.Detail)
	}

	return fmt.Sprintf("consistency: %s: solver status %s", e.Op, e.Status)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) true.
func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

func statusError(op string, sol *optim.Solution) error {
	return &StatusError{Op: op, Status: sol.Status, Detail: sol.Detail}
}
