// SPDX-License-Identifier: MIT

package simplex

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/optim"
)

// Solver is the gonum-backed optim.Solver. The zero value is not usable;
// construct with New. A Solver holds no per-solve state and is safe for
// concurrent use.
type Solver struct {
	tol      float64
	intTol   float64
	maxNodes int
	logger   *zap.Logger
	metrics  *Metrics
}

var _ optim.Solver = (*Solver)(nil)

// New returns a Solver configured by opts.
func New(opts ...Option) *Solver {
	s := &Solver{
		tol:      DefaultTolerance,
		intTol:   DefaultIntegrality,
		maxNodes: DefaultMaxNodes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Solve solves p. Problems without binary variables are solved as one LP;
// otherwise a depth-first branch and bound runs over the binaries.
func (s *Solver) Solve(ctx context.Context, p *optim.Problem) (*optim.Solution, error) {
	if p == nil {
		return nil, optim.ErrNilProblem
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	vars := p.Variables()
	lo := make([]float64, len(vars))
	hi := make([]float64, len(vars))
	for i, v := range vars {
		lo[i], hi[i] = v.Lower, v.Upper
	}

	var (
		sol   *optim.Solution
		nodes int
		err   error
	)
	if p.HasIntegers() {
		sol, nodes, err = s.branchAndBound(ctx, p, vars, lo, hi)
	} else {
		sol = s.finish(p, s.solveRelaxation(p, lo, hi))
	}
	if err != nil {
		return nil, err
	}

	s.metrics.observe(sol.Status, time.Since(start), nodes)
	s.logger.Debug("solve finished",
		zap.String("problem", p.Name()),
		zap.Stringer("status", sol.Status),
		zap.Float64("objective", sol.Objective),
		zap.Int("nodes", nodes),
		zap.Duration("elapsed", time.Since(start)),
	)

	return sol, nil
}

// finish turns a relaxation outcome into a Solution.
func (s *Solver) finish(p *optim.Problem, r relaxation) *optim.Solution {
	if r.status != optim.StatusOptimal {
		return &optim.Solution{Status: r.status, Objective: math.NaN(), Detail: r.detail}
	}

	return &optim.Solution{
		Status:    optim.StatusOptimal,
		Objective: p.Objective().Expr.Eval(r.x),
		Primal:    r.x,
	}
}

// node is one branch-and-bound subproblem: a set of tightened bounds.
type node struct {
	lo, hi []float64
}

// branchAndBound explores binary assignments depth first.
//
// Implementation:
//   - Stage 1: pop a node, solve its relaxation; infeasible nodes are pruned,
//     unbounded or failed relaxations end the search with that status.
//   - Stage 2: prune nodes whose bound cannot beat the incumbent.
//   - Stage 3: an integral relaxation becomes the new incumbent; otherwise
//     branch on the most fractional binary (x=0 / x=1 children), pushing the
//     child nearest to the relaxed value last so it is explored first.
//
// The search stops with StatusOther once maxNodes relaxations were solved.
func (s *Solver) branchAndBound(
	ctx context.Context,
	p *optim.Problem,
	vars []optim.Variable,
	lo, hi []float64,
) (*optim.Solution, int, error) {
	sense := 1.0 // internal comparison in minimisation sense
	if p.Objective().Direction == optim.Maximize {
		sense = -1
	}

	var (
		best     []float64
		bestVal  = math.Inf(1)
		stack    = []node{{lo: lo, hi: hi}}
		explored int
	)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, explored, err
		}
		if explored >= s.maxNodes {
			return &optim.Solution{
				Status:    optim.StatusOther,
				Objective: math.NaN(),
				Detail:    "simplex: node limit reached",
			}, explored, nil
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		explored++

		// 1) relaxation
		r := s.solveRelaxation(p, nd.lo, nd.hi)
		switch r.status {
		case optim.StatusInfeasible:
			continue
		case optim.StatusOptimal:
		default:
			return &optim.Solution{Status: r.status, Objective: math.NaN(), Detail: r.detail}, explored, nil
		}

		// 2) bound
		val := sense * p.Objective().Expr.Eval(r.x)
		if val >= bestVal-s.gap(bestVal) {
			continue
		}

		// 3) branch or accept
		branchVar, frac := -1, 0.0
		for j, v := range vars {
			if v.Kind != optim.Binary {
				continue
			}
			f := math.Abs(r.x[j] - math.Round(r.x[j]))
			if f > s.intTol && f > frac {
				branchVar, frac = j, f
			}
		}
		if branchVar < 0 {
			for j, v := range vars {
				if v.Kind == optim.Binary {
					r.x[j] = math.Round(r.x[j])
				}
			}
			best, bestVal = r.x, val
			s.logger.Debug("incumbent",
				zap.String("problem", p.Name()),
				zap.Float64("objective", sense*val),
				zap.Int("node", explored),
			)
			continue
		}

		down := node{lo: clone(nd.lo), hi: clone(nd.hi)}
		down.hi[branchVar] = 0
		up := node{lo: clone(nd.lo), hi: clone(nd.hi)}
		up.lo[branchVar] = 1
		if r.x[branchVar] >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	if best == nil {
		return &optim.Solution{Status: optim.StatusInfeasible, Objective: math.NaN()}, explored, nil
	}

	return &optim.Solution{
		Status:    optim.StatusOptimal,
		Objective: p.Objective().Expr.Eval(best),
		Primal:    best,
	}, explored, nil
}

// gap is the pruning margin relative to the incumbent value.
func (s *Solver) gap(incumbent float64) float64 {
	if math.IsInf(incumbent, 1) {
		return 0
	}

	return s.intTol * (1 + math.Abs(incumbent))
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
