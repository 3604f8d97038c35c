package optim

import (
	"context"
	"math"
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusOptimal means a proven optimum was found.
	StatusOptimal Status = iota
	// StatusInfeasible means no point satisfies the constraints.
	StatusInfeasible
	// StatusUnbounded means the objective can improve without limit.
	StatusUnbounded
	// StatusOther covers every remaining outcome: numerical failure, node or
	// iteration limits, cancellation inside the solver.
	StatusOther
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "other"
	}
}

// Solution is the result of one solve.
type Solution struct {
	// Status indicates the outcome of the solve.
	Status Status

	// Objective is the objective value in the problem's own direction.
	// NaN unless Status is StatusOptimal.
	Objective float64

	// Primal holds one value per problem variable, in index order.
	// Nil unless Status is StatusOptimal.
	Primal []float64

	// Detail carries a solver-specific explanation for StatusOther.
	Detail string
}

// IsOptimal returns true if the solution is optimal.
func (s *Solution) IsOptimal() bool { return s != nil && s.Status == StatusOptimal }

// IsInfeasible returns true if the problem is infeasible.
func (s *Solution) IsInfeasible() bool { return s != nil && s.Status == StatusInfeasible }

// Value returns the primal value of variable i, or NaN when unavailable.
func (s *Solution) Value(i int) float64 {
	if s == nil || i < 0 || i >= len(s.Primal) {
		return math.NaN()
	}

	return s.Primal[i]
}

// Solver turns a Problem into a Solution. Implementations must not mutate p.
// The error return is reserved for invalid input and context cancellation;
// every solver outcome, including failures, is reported through Status.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// SolverFunc adapts a plain function to the Solver interface.
type SolverFunc func(ctx context.Context, p *Problem) (*Solution, error)

// Solve calls f(ctx, p).
func (f SolverFunc) Solve(ctx context.Context, p *Problem) (*Solution, error) { return f(ctx, p) }
