// Package optimtest provides a scripted optim.Solver for formulation tests.
//
// The Solver replays canned replies in order (the last one repeats once the
// script is exhausted) and records a clone of every problem it was asked to
// solve, so tests can assert on variables, constraints and objectives without
// a numeric backend.
package optimtest

import (
	"context"
	"math"
	"sync"

	"github.com/katalvlaran/stoich/optim"
)

// Reply produces the solver's answer for one call.
type Reply func(p *optim.Problem) (*optim.Solution, error)

// Optimal answers StatusOptimal with the given objective. Variables named in
// values get that primal value; all others are 0.
func Optimal(objective float64, values map[string]float64) Reply {
	return func(p *optim.Problem) (*optim.Solution, error) {
		x := make([]float64, p.NumVariables())
		for name, v := range values {
			if i, ok := p.VarIndex(name); ok {
				x[i] = v
			}
		}

		return &optim.Solution{Status: optim.StatusOptimal, Objective: objective, Primal: x}, nil
	}
}

// Status answers with a non-optimal status and no primal values.
func Status(s optim.Status) Reply {
	return func(*optim.Problem) (*optim.Solution, error) {
		return &optim.Solution{Status: s, Objective: math.NaN(), Detail: "scripted"}, nil
	}
}

// Solver is a scripted optim.Solver. Safe for concurrent use.
type Solver struct {
	mu      sync.Mutex
	replies []Reply
	next    int
	calls   []*optim.Problem
}

var _ optim.Solver = (*Solver)(nil)

// New returns a Solver that replays replies in order.
func New(replies ...Reply) *Solver {
	return &Solver{replies: replies}
}

// Solve records p and returns the next scripted reply.
func (s *Solver) Solve(ctx context.Context, p *optim.Problem) (*optim.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, optim.ErrNilProblem
	}
	s.mu.Lock()
	s.calls = append(s.calls, p.Clone())
	var r Reply
	switch {
	case len(s.replies) == 0:
		r = Status(optim.StatusOther)
	case s.next < len(s.replies):
		r = s.replies[s.next]
		s.next++
	default:
		r = s.replies[len(s.replies)-1]
	}
	s.mu.Unlock()

	return r(p)
}

// Calls returns the problems seen so far, in call order.
func (s *Solver) Calls() []*optim.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*optim.Problem(nil), s.calls...)
}
