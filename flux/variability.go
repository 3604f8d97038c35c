package flux

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
)

// objectiveRow names the constraint that pins the original objective.
const objectiveRow = "__fva_objective"

// Range is the feasible flux interval of one reaction.
type Range struct {
	Min, Max float64
}

// Options configures Variability.
//   - FractionOfOptimum: the original objective must reach this fraction of
//     its optimum (default 1.0). Ignored when the model has no objective.
//   - Loopless: request loop-free ranges. Not supported.
type Options struct {
	FractionOfOptimum float64
	Loopless          bool
}

// DefaultOptions returns the defaults used by Variability.
func DefaultOptions() Options {
	return Options{FractionOfOptimum: 1.0}
}

// Option mutates Options.
type Option func(*Options)

// WithFractionOfOptimum sets the objective fraction. Panics outside [0, 1].
func WithFractionOfOptimum(f float64) Option {
	if !(f >= 0 && f <= 1) {
		panic(fmt.Sprintf("flux: WithFractionOfOptimum(%g): must be in [0, 1]", f))
	}

	return func(o *Options) { o.FractionOfOptimum = f }
}

// WithLoopless requests loop-free variability.
func WithLoopless(on bool) Option {
	return func(o *Options) { o.Loopless = on }
}

// Variability computes the minimum and maximum flux of every reaction.
//
// Implementation:
//   - Stage 1: build the flux problem from the model.
//   - Stage 2: if the model has an objective, maximise it and add the row
//     objective ≥ fraction·optimum (less the model tolerance).
//   - Stage 3: for each reaction, minimise then maximise its flux.
//
// Any non-optimal solve fails with ErrNotOptimal.
//
// Complexity: 2·|reactions| + 1 solves.
func Variability(ctx context.Context, s optim.Solver, m *metabolic.Model, opts ...Option) (map[string]Range, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Loopless {
		return nil, ErrLooplessUnsupported
	}
	if s == nil {
		return nil, ErrNilSolver
	}

	// 1) formulation
	p, err := NewProblem(m)
	if err != nil {
		return nil, err
	}

	// 2) pin the objective
	if obj := p.Objective(); len(obj.Expr) > 0 {
		sol, err := s.Solve(ctx, p.Problem)
		if err != nil {
			return nil, err
		}
		if !sol.IsOptimal() {
			return nil, fmt.Errorf("%w: objective: %s", ErrNotOptimal, sol.Status)
		}
		lb := o.FractionOfOptimum*sol.Objective - m.Tolerance()
		if err = p.AddConstraint(objectiveRow, obj.Expr, lb, math.Inf(1)); err != nil {
			return nil, err
		}
	}

	// 3) per-reaction extremes
	out := make(map[string]Range, len(p.Reactions))
	for i, id := range p.Reactions {
		var r Range
		for _, dir := range []optim.Direction{optim.Minimize, optim.Maximize} {
			if err = p.SetObjective(optim.Sum(i), dir); err != nil {
				return nil, err
			}
			sol, err := s.Solve(ctx, p.Problem)
			if err != nil {
				return nil, err
			}
			if !sol.IsOptimal() {
				return nil, fmt.Errorf("%w: %s %s: %s", ErrNotOptimal, dir, id, sol.Status)
			}
			if dir == optim.Minimize {
				r.Min = sol.Objective
			} else {
				r.Max = sol.Objective
			}
		}
		out[id] = r
	}

	return out, nil
}
