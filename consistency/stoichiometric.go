// SPDX-License-Identifier: MIT
//
// File: stoichiometric.go
// Role: stoichiometric consistency (LP), unconserved metabolites (MILP) and
// minimal net stoichiometries violating conservation (MILP with integer cuts).
// Determinism:
//   - Metabolites and internal reactions are taken in ascending ID order, so
//     variable and row layouts are identical across runs.

package consistency

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/matrix"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
)

// Operation tags used in StatusError.Op.
const (
	opConsistency = "stoichiometric consistency"
	opUnconserved = "unconserved metabolites"
	opMinimal     = "minimal inconsistent sets"
	opEnergy      = "energy generating cycles"
	opBlocked     = "blocked metabolites"
)

// MetaboliteSet is a sorted list of metabolite IDs.
type MetaboliteSet []string

// String joins the IDs with ", ".
func (s MetaboliteSet) String() string { return "(" + strings.Join(s, ", ") + ")" }

func (s MetaboliteSet) key() string { return strings.Join(s, "\x00") }

// massProblem holds a problem with one variable per internal metabolite.
type massProblem struct {
	*optim.Problem
	mets []string
	mass map[string]int // metabolite ID -> mass variable
}

// newMassProblem adds one mass variable per metabolite with bounds [lo, hi].
func newMassProblem(name string, mets []string, lo, hi float64) (*massProblem, error) {
	mp := &massProblem{Problem: optim.NewProblem(name), mets: mets, mass: make(map[string]int, len(mets))}
	for _, id := range mets {
		v, err := mp.AddVariable(id, lo, hi, optim.Continuous)
		if err != nil {
			return nil, fmt.Errorf("consistency: %w", err)
		}
		mp.mass[id] = v
	}

	return mp, nil
}

// addIndicators adds a binary k_<id> per metabolite and returns their
// indices in metabolite order.
func (mp *massProblem) addIndicators() ([]int, error) {
	ks := make([]int, len(mp.mets))
	for i, id := range mp.mets {
		k, err := mp.AddVariable("k_"+id, 0, 1, optim.Binary)
		if err != nil {
			return nil, fmt.Errorf("consistency: %w", err)
		}
		ks[i] = k
	}

	return ks, nil
}

// addReactionRows adds Σ coef·mass = 0 per reaction, named by reaction ID.
func (mp *massProblem) addReactionRows(rxns []metabolic.Reaction) error {
	for _, r := range rxns {
		expr := make(optim.Expr, 0, len(r.Stoichiometry))
		for _, met := range r.Metabolites() {
			expr = append(expr, optim.Term{Var: mp.mass[met], Coef: r.Stoichiometry[met]})
		}
		if err := mp.AddConstraint(r.ID, expr, 0, 0); err != nil {
			return fmt.Errorf("consistency: %w", err)
		}
	}

	return nil
}

func (mp *massProblem) massSum() optim.Expr {
	expr := make(optim.Expr, 0, len(mp.mets))
	for _, id := range mp.mets {
		expr = append(expr, optim.Term{Var: mp.mass[id], Coef: 1})
	}

	return expr
}

// IsConsistent reports whether a strictly positive mass vector m exists
// with Sᵀ·m = 0 over the internal reactions of model.
//
// Implementation:
//   - Stage 1: one variable per internal metabolite, bounds [1, +Inf).
//   - Stage 2: one equality row per internal reaction.
//   - Stage 3: minimise Σm; optimal means consistent, infeasible means not.
//
// Any other status fails with a *StatusError.
func (c *Checker) IsConsistent(ctx context.Context, model *metabolic.Model) (bool, error) {
	if model == nil {
		return false, ErrNilModel
	}
	mets := model.InternalMetabolites()
	if len(mets) == 0 {
		return true, nil
	}
	mp, err := newMassProblem("consistency", mets, 1, optim.Inf)
	if err != nil {
		return false, err
	}
	if err = mp.addReactionRows(model.Internal()); err != nil {
		return false, err
	}
	if err = mp.SetObjective(mp.massSum(), optim.Minimize); err != nil {
		return false, fmt.Errorf("consistency: %w", err)
	}

	sol, err := c.solver.Solve(ctx, mp.Problem)
	if err != nil {
		return false, err
	}
	switch sol.Status {
	case optim.StatusOptimal:
		return true, nil
	case optim.StatusInfeasible:
		return false, nil
	default:
		return false, statusError(opConsistency, sol)
	}
}

// FindUnconserved returns the internal metabolites that cannot carry a
// positive mass in any conservation vector, sorted by ID.
//
// Implementation:
//   - Stage 1: per metabolite a mass m ≥ 0 and an indicator k ∈ {0,1}
//     coupled by k − m ≤ 0 (row "switch_<id>").
//   - Stage 2: the reaction rows of IsConsistent.
//   - Stage 3: maximise Σk; metabolites with IsUnconserved(k) are reported.
//
// A non-optimal solve fails with a *StatusError.
func (c *Checker) FindUnconserved(ctx context.Context, model *metabolic.Model) ([]string, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	mets := model.InternalMetabolites()
	if len(mets) == 0 {
		return []string{}, nil
	}
	mp, err := newMassProblem("unconserved", mets, 0, optim.Inf)
	if err != nil {
		return nil, err
	}
	ks, err := mp.addIndicators()
	if err != nil {
		return nil, err
	}
	for i, id := range mets {
		expr := optim.Expr{{Var: ks[i], Coef: 1}, {Var: mp.mass[id], Coef: -1}}
		if err = mp.AddConstraint("switch_"+id, expr, -optim.Inf, 0); err != nil {
			return nil, fmt.Errorf("consistency: %w", err)
		}
	}
	if err = mp.addReactionRows(model.Internal()); err != nil {
		return nil, err
	}
	if err = mp.SetObjective(optim.Sum(ks...), optim.Maximize); err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}

	sol, err := c.solver.Solve(ctx, mp.Problem)
	if err != nil {
		return nil, err
	}
	if !sol.IsOptimal() {
		return nil, statusError(opUnconserved, sol)
	}
	out := []string{}
	for i, id := range mets {
		if IsUnconserved(sol.Value(ks[i])) {
			out = append(out, id)
		}
	}

	return out, nil
}

// FindMinimalViolations enumerates minimal sets of metabolites whose net
// stoichiometry violates mass conservation. A consistent model yields an
// empty result.
//
// Implementation:
//   - Stage 1: compute the unconserved metabolites and the left nullspace K
//     of the internal stoichiometric matrix. Without a nullspace every
//     unconserved metabolite is its own minimal set.
//   - Stage 2: build the MILP min Σk s.t. 0 ≤ y ≤ k, Kᵀ·y = 0.
//   - Stage 3: per unconserved metabolite (ascending ID): a zero row of K
//     is a singleton set; otherwise force y ≥ 1e-3 and collect optimal
//     solutions, excluding each found set with the cut Σk ≤ |set| − 1,
//     until the problem turns infeasible or a singleton appears.
//     Forced bound and cuts are undone before the next target.
//
// At most WithMaxTargets non-trivial sets are computed. Any status other
// than optimal or infeasible fails with a *StatusError.
func (c *Checker) FindMinimalViolations(ctx context.Context, model *metabolic.Model) ([]MetaboliteSet, error) {
	ok, err := c.IsConsistent(ctx, model)
	if err != nil {
		return nil, err
	}
	if ok {
		return []MetaboliteSet{}, nil
	}

	// 1) unconserved metabolites and the left nullspace
	unconserved, err := c.FindUnconserved(ctx, model)
	if err != nil {
		return nil, err
	}
	c.logger.Info("unconserved metabolites", zap.Int("count", len(unconserved)))
	st, err := model.InternalStoichiometry()
	if err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}
	kernel, err := matrix.LeftNullspace(st.Mat, matrix.WithAbsTol(c.atol))
	if err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}
	found := newSetCollector()
	if kernel.Cols() == 0 {
		c.logger.Info("left nullspace is empty")
		for _, id := range unconserved {
			found.add(MetaboliteSet{id})
		}

		return found.sorted(), nil
	}
	c.logger.Info("left nullspace", zap.Int("dimension", kernel.Cols()))

	// 2) MILP
	mp, ks, err := c.minimalProblem(st.Metabolites, kernel)
	if err != nil {
		return nil, err
	}

	// 3) targets
	computed := 0
	for _, id := range unconserved {
		if kernel.IsZeroRow(st.MetIndex[id]) {
			c.logger.Debug("singleton minimal set", zap.String("metabolite", id))
			found.add(MetaboliteSet{id})
			continue
		}
		if computed >= c.maxTargets {
			c.logger.Debug("max number of computed targets reached", zap.Int("max", c.maxTargets))
			break
		}
		n, err := c.enumerateTarget(ctx, mp, ks, id, found)
		computed += n
		if err != nil {
			return nil, err
		}
	}

	return found.sorted(), nil
}

// minimalProblem builds min Σk s.t. 0 ≤ y_i ≤ k_i (row "switch_<id>") and
// Σ_i K[i][j]·y_i = 0 per nullspace column j (row "ns_<j>").
func (c *Checker) minimalProblem(mets []string, kernel *matrix.Dense) (*massProblem, []int, error) {
	mp, err := newMassProblem("minimal", mets, 0, optim.Inf)
	if err != nil {
		return nil, nil, err
	}
	ks, err := mp.addIndicators()
	if err != nil {
		return nil, nil, err
	}
	for i, id := range mets {
		expr := optim.Expr{{Var: mp.mass[id], Coef: 1}, {Var: ks[i], Coef: -1}}
		if err = mp.AddConstraint("switch_"+id, expr, -optim.Inf, 0); err != nil {
			return nil, nil, fmt.Errorf("consistency: %w", err)
		}
	}
	for j := 0; j < kernel.Cols(); j++ {
		col := kernel.Col(j)
		expr := make(optim.Expr, 0, len(col))
		for i, coef := range col {
			if coef != 0 {
				expr = append(expr, optim.Term{Var: mp.mass[mets[i]], Coef: coef})
			}
		}
		if err = mp.AddConstraint(fmt.Sprintf("ns_%d", j), expr, 0, 0); err != nil {
			return nil, nil, fmt.Errorf("consistency: %w", err)
		}
	}
	if err = mp.SetObjective(optim.Sum(ks...), optim.Minimize); err != nil {
		return nil, nil, fmt.Errorf("consistency: %w", err)
	}

	return mp, ks, nil
}

// enumerateTarget runs the cut loop for one target and returns the number
// of optimal solutions recorded. The target bound and all cuts are removed
// on return.
func (c *Checker) enumerateTarget(ctx context.Context, mp *massProblem, ks []int, target string, found *setCollector) (n int, err error) {
	y := mp.mass[target]
	if err = mp.SetLower(y, TargetMassLowerBound); err != nil {
		return 0, fmt.Errorf("consistency: %w", err)
	}
	var cuts []string
	defer func() {
		if rerr := mp.SetLower(y, 0); rerr != nil && err == nil {
			err = fmt.Errorf("consistency: %w", rerr)
		}
		for _, name := range cuts {
			if rerr := mp.RemoveConstraint(name); rerr != nil && err == nil {
				err = fmt.Errorf("consistency: %w", rerr)
			}
		}
	}()

	for {
		var sol *optim.Solution
		if sol, err = c.solver.Solve(ctx, mp.Problem); err != nil {
			return n, err
		}
		c.logger.Debug("target solved",
			zap.String("metabolite", target),
			zap.Stringer("status", sol.Status),
		)
		switch sol.Status {
		case optim.StatusOptimal:
		case optim.StatusInfeasible:
			return n, nil
		default:
			return n, statusError(opMinimal, sol)
		}
		var set MetaboliteSet
		for i, id := range mp.mets {
			if IsMember(sol.Value(ks[i])) {
				set = append(set, id)
			}
		}
		n++
		found.add(set)
		c.logger.Debug("minimal set", zap.String("metabolite", target), zap.Int("size", len(set)))
		if len(set) <= 1 {
			return n, nil
		}
		name := fmt.Sprintf("cut_%s_%d", target, len(cuts))
		if err = mp.AddConstraint(name, optim.Sum(ks...), -optim.Inf, float64(len(set)-1)); err != nil {
			return n, fmt.Errorf("consistency: %w", err)
		}
		cuts = append(cuts, name)
	}
}

// setCollector deduplicates minimal sets.
type setCollector struct {
	seen map[string]bool
	sets []MetaboliteSet
}

func newSetCollector() *setCollector { return &setCollector{seen: make(map[string]bool)} }

func (sc *setCollector) add(s MetaboliteSet) {
	s = append(MetaboliteSet(nil), s...)
	sort.Strings(s)
	if k := s.key(); !sc.seen[k] {
		sc.seen[k] = true
		sc.sets = append(sc.sets, s)
	}
}

// sorted returns the sets ordered by size, then lexicographically.
func (sc *setCollector) sorted() []MetaboliteSet {
	out := append([]MetaboliteSet{}, sc.sets...)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i].key() < out[j].key()
	})

	return out
}
