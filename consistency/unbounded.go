package consistency

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/stoich/flux"
	"github.com/katalvlaran/stoich/metabolic"
)

// UnboundedFlux is the result of FindUnboundedFlux.
type UnboundedFlux struct {
	// Unlimited lists reactions whose range reaches a median default bound.
	Unlimited []string
	// Fraction is len(Unlimited) over the number of non-blocked reactions.
	Fraction float64
	// Blocked lists reactions that cannot carry flux.
	Blocked []string
}

// FindUnboundedFlux reports the reactions whose flux range, under the
// default model conditions with the objective at its optimum, reaches the
// median lower or upper bound of the model.
//
// Implementation:
//   - Stage 1: flux variability at fraction 1.0.
//   - Stage 2: blocked when max(|min|, |max|) < 1e-7.
//   - Stage 3: unlimited when max is close to or above the median upper
//     bound, or min is close to or below the median lower bound.
//
// Every reaction blocked fails with ErrNoNonBlockedReactions.
func (c *Checker) FindUnboundedFlux(ctx context.Context, model *metabolic.Model) (*UnboundedFlux, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	ranges, err := flux.Variability(ctx, c.solver, model, flux.WithFractionOfOptimum(1))
	if err != nil {
		return nil, fmt.Errorf("consistency: unbounded flux: %w", err)
	}
	small, large, _, _ := model.MedianBounds()

	res := &UnboundedFlux{Unlimited: []string{}, Blocked: []string{}}
	for id, r := range ranges {
		if math.Max(math.Abs(r.Min), math.Abs(r.Max)) < CycleTolerance {
			res.Blocked = append(res.Blocked, id)
			continue
		}
		if isClose(r.Max, large) || r.Max > large || isClose(r.Min, small) || r.Min < small {
			res.Unlimited = append(res.Unlimited, id)
		}
	}
	sort.Strings(res.Unlimited)
	sort.Strings(res.Blocked)

	open := len(ranges) - len(res.Blocked)
	if open == 0 {
		return nil, ErrNoNonBlockedReactions
	}
	res.Fraction = float64(len(res.Unlimited)) / float64(open)

	return res, nil
}

// isClose is |a − b| ≤ atol + rtol·|b| with atol 1e-7 and rtol 1e-5.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= CycleTolerance+1e-5*math.Abs(b)
}
