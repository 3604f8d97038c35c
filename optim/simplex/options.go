package simplex

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Defaults for New.
const (
	// DefaultTolerance is the pivot/optimality tolerance passed to lp.Simplex.
	DefaultTolerance = 1e-10

	// DefaultIntegrality is the distance from 0 or 1 below which a binary
	// relaxation value counts as integral.
	DefaultIntegrality = 1e-6

	// DefaultMaxNodes caps the number of branch-and-bound relaxations.
	DefaultMaxNodes = 10000
)

// Option configures a Solver.
type Option func(*Solver)

// WithTolerance sets the simplex tolerance. Panics unless tol is finite and > 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(fmt.Sprintf("simplex: WithTolerance(%g): tolerance must be finite and > 0", tol))
	}

	return func(s *Solver) { s.tol = tol }
}

// WithIntegrality sets the integrality tolerance. Panics unless 0 < tol < 0.5.
func WithIntegrality(tol float64) Option {
	if !(tol > 0 && tol < 0.5) {
		panic(fmt.Sprintf("simplex: WithIntegrality(%g): tolerance must be in (0, 0.5)", tol))
	}

	return func(s *Solver) { s.intTol = tol }
}

// WithMaxNodes bounds the branch-and-bound search. Panics if n < 1.
func WithMaxNodes(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("simplex: WithMaxNodes(%d): must be >= 1", n))
	}

	return func(s *Solver) { s.maxNodes = n }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l.Named("simplex")
		}
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(s *Solver) { s.metrics = m }
}
