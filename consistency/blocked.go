// SPDX-License-Identifier: MIT
//
// File: blocked.go
// Role: metabolites that cannot be produced or consumed.
// Concurrency:
//   - The flux problem is built once and cloned per worker; workers never
//     share a mutable problem. Results are written to distinct slots.

package consistency

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/stoich/flux"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
)

// sinkID names the shared sink variable of FindBlocked.
const sinkID = "__multi_sink"

// FindNotProduced returns the metabolites that cannot be produced with all
// exchanges open, sorted.
func (c *Checker) FindNotProduced(ctx context.Context, model *metabolic.Model) ([]string, error) {
	return c.FindBlocked(ctx, model, -1)
}

// FindNotConsumed returns the metabolites that cannot be consumed with all
// exchanges open, sorted.
func (c *Checker) FindNotConsumed(ctx context.Context, model *metabolic.Model) ([]string, error) {
	return c.FindBlocked(ctx, model, 1)
}

// FindBlocked tests every metabolite against a temporary sink with the
// given coefficient in its balance row: -1 drains the metabolite (can it be
// produced?), +1 feeds it (can it be consumed?).
//
// Implementation:
//   - Stage 1: inside a scoped edit, open exchanges and build the flux
//     problem with the sink variable [0, 1000] as sole maximised objective.
//   - Stage 2: fan the metabolites out to min(parallelism, #metabolites)
//     workers, each owning a clone of the problem.
//   - Stage 3: per metabolite, attach the sink, solve, detach.
//
// A metabolite is blocked when the solve is infeasible, the objective is
// not finite, or it is below the model tolerance. Unbounded or other
// statuses fail with a *StatusError.
func (c *Checker) FindBlocked(ctx context.Context, model *metabolic.Model, coefficient float64) ([]string, error) {
	if coefficient != -1 && coefficient != 1 {
		return nil, fmt.Errorf("%w: got %g", ErrBadCoefficient, coefficient)
	}
	if model == nil {
		return nil, ErrNilModel
	}

	// 1) formulation
	var base *flux.Problem
	err := model.Edit(func(m *metabolic.Model) error {
		m.OpenExchanges()
		p, err := flux.NewProblem(m)
		if err != nil {
			return err
		}
		sink, err := p.AddVariable(sinkID, 0, metabolic.DefaultUpperBound, optim.Continuous)
		if err != nil {
			return fmt.Errorf("consistency: %w", err)
		}
		if err = p.SetObjective(optim.Sum(sink), optim.Maximize); err != nil {
			return fmt.Errorf("consistency: %w", err)
		}
		base = p

		return nil
	})
	if err != nil {
		return nil, err
	}
	mets := base.Metabolites
	if len(mets) == 0 {
		return []string{}, nil
	}
	sink, _ := base.VarIndex(sinkID)
	tol := model.Tolerance()

	// 2) worker pool
	workers := c.parallelism
	if workers > len(mets) {
		workers = len(mets)
	}
	blocked := make([]bool, len(mets))
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range mets {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})
	for w := 0; w < workers; w++ {
		p := base.Clone()
		g.Go(func() error {
			for i := range jobs {
				b, err := c.probe(gctx, p, mets[i], sink, coefficient, tol)
				if err != nil {
					return err
				}
				blocked[i] = b
			}

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	// 3) collect
	out := []string{}
	for i, id := range mets {
		if blocked[i] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	c.logger.Debug("blocked metabolites",
		zap.Float64("coefficient", coefficient),
		zap.Int("tested", len(mets)),
		zap.Int("blocked", len(out)),
	)

	return out, nil
}

// probe attaches the sink to met's balance row, solves and detaches it.
func (c *Checker) probe(ctx context.Context, p *flux.Problem, met string, sink int, coef, tol float64) (blocked bool, err error) {
	if err = p.SetCoefficient(met, sink, coef); err != nil {
		return false, fmt.Errorf("consistency: %w", err)
	}
	defer func() {
		if rerr := p.SetCoefficient(met, sink, 0); rerr != nil && err == nil {
			err = fmt.Errorf("consistency: %w", rerr)
		}
	}()

	sol, err := c.solver.Solve(ctx, p.Problem)
	if err != nil {
		return false, err
	}
	switch sol.Status {
	case optim.StatusInfeasible:
		return true, nil
	case optim.StatusOptimal:
		return math.IsNaN(sol.Objective) || math.IsInf(sol.Objective, 0) || sol.Objective < tol, nil
	default:
		return false, &StatusError{Op: opBlocked, Status: sol.Status, Detail: met}
	}
}
