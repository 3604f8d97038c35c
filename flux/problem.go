// SPDX-License-Identifier: MIT

package flux

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
)

// Sentinel errors.
var (
	// ErrNilModel is returned when a nil model is passed.
	ErrNilModel = errors.New("flux: nil model")

	// ErrNilSolver is returned when a nil solver is passed.
	ErrNilSolver = errors.New("flux: nil solver")

	// ErrNotOptimal is returned when a solve that must succeed did not.
	ErrNotOptimal = errors.New("flux: solve not optimal")

	// ErrUnknownObjective is returned when the objective names a reaction
	// missing from the formulation.
	ErrUnknownObjective = errors.New("flux: objective reaction not in problem")

	// ErrLooplessUnsupported is returned by Variability with WithLoopless(true).
	ErrLooplessUnsupported = errors.New("flux: loopless variability is not supported")
)

// Problem is the flux-balance formulation of a model:
//
//	S·v = 0,  lower ≤ v ≤ upper,  objective over v
//
// One continuous variable per reaction (named by reaction ID) and one
// equality row per metabolite (named by metabolite ID). Variable and row
// order follow the ascending IDs in Reactions and Metabolites.
type Problem struct {
	*optim.Problem

	Reactions   []string
	Metabolites []string
}

// NewProblem builds the flux-balance problem of m. The model objective is
// maximised.
func NewProblem(m *metabolic.Model) (*Problem, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	st, err := m.FullStoichiometry()
	if err != nil {
		return nil, fmt.Errorf("flux: %w", err)
	}

	p := optim.NewProblem(m.ID())
	rows := make([]optim.Expr, len(st.Metabolites))
	for _, id := range st.Reactions {
		r, err := m.Reaction(id)
		if err != nil {
			return nil, err
		}
		v, err := p.AddVariable(id, r.Lower, r.Upper, optim.Continuous)
		if err != nil {
			return nil, fmt.Errorf("flux: reaction %q: %w", id, err)
		}
		for met, c := range r.Stoichiometry {
			i := st.MetIndex[met]
			rows[i] = append(rows[i], optim.Term{Var: v, Coef: c})
		}
	}
	for i, met := range st.Metabolites {
		if err = p.AddConstraint(met, rows[i], 0, 0); err != nil {
			return nil, fmt.Errorf("flux: metabolite %q: %w", met, err)
		}
	}

	obj, err := objectiveExpr(p, m.Objective())
	if err != nil {
		return nil, err
	}
	if err = p.SetObjective(obj, optim.Maximize); err != nil {
		return nil, fmt.Errorf("flux: objective: %w", err)
	}

	return &Problem{Problem: p, Reactions: st.Reactions, Metabolites: st.Metabolites}, nil
}

// objectiveExpr maps reaction coefficients onto the problem's variables.
func objectiveExpr(p *optim.Problem, coefs map[string]float64) (optim.Expr, error) {
	obj := make(optim.Expr, 0, len(coefs))
	for id, c := range coefs {
		v, ok := p.VarIndex(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownObjective, id)
		}
		obj = append(obj, optim.Term{Var: v, Coef: c})
	}

	return obj, nil
}

// Clone returns an independent copy.
func (p *Problem) Clone() *Problem {
	return &Problem{
		Problem:     p.Problem.Clone(),
		Reactions:   p.Reactions,
		Metabolites: p.Metabolites,
	}
}

// Result is the outcome of Optimize.
type Result struct {
	Status    optim.Status
	Objective float64
	// Fluxes maps reaction ID to flux; nil unless Status is optimal.
	Fluxes map[string]float64
}

// Optimize maximises the model objective.
func Optimize(ctx context.Context, s optim.Solver, m *metabolic.Model) (*Result, error) {
	if s == nil {
		return nil, ErrNilSolver
	}
	p, err := NewProblem(m)
	if err != nil {
		return nil, err
	}
	sol, err := s.Solve(ctx, p.Problem)
	if err != nil {
		return nil, err
	}
	res := &Result{Status: sol.Status, Objective: sol.Objective}
	if !sol.IsOptimal() {
		res.Objective = math.NaN()
		return res, nil
	}
	res.Fluxes = make(map[string]float64, len(p.Reactions))
	for i, id := range p.Reactions {
		res.Fluxes[id] = sol.Value(i)
	}

	return res, nil
}
