// SPDX-License-Identifier: MIT
package consistency_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/stoich/consistency"
	"github.com/katalvlaran/stoich/matrix"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
	"github.com/katalvlaran/stoich/optim/optimtest"
	"github.com/katalvlaran/stoich/optim/simplex"
)

// Figure 1 of Gevorgyan et al. (2008): A' B' C' are consumed but never produced.
const fig1YAML = `
id: fig1
compartments: [{id: c, name: cytosol}]
metabolites:
  - {id: A, compartment: c}
  - {id: Ap, compartment: c}
  - {id: B, compartment: c}
  - {id: Bp, compartment: c}
  - {id: C, compartment: c}
  - {id: Cp, compartment: c}
reactions:
  - {id: R1, stoichiometry: {A: -1, Ap: -1, B: 1}}
  - {id: R2, stoichiometry: {B: -1, Bp: -1, C: 1}}
  - {id: R3, stoichiometry: {C: -1, Cp: -2, A: 1}}
`

// Equation 8: A -> B + C alongside A -> B and A -> C; no left nullspace.
const eq8YAML = `
id: eq8
metabolites: [{id: A}, {id: B}, {id: C}]
reactions:
  - {id: R1, stoichiometry: {A: -1, B: 1, C: 1}}
  - {id: R2, stoichiometry: {A: -1, B: 1}}
  - {id: R3, stoichiometry: {A: -1, C: 1}}
`

// Figure 2: X appears from nothing in two parallel branches.
const fig2YAML = `
id: fig2
metabolites: [{id: A}, {id: B}, {id: P}, {id: Q}, {id: X}]
reactions:
  - {id: R1, stoichiometry: {A: -1, B: 1}}
  - {id: R2, stoichiometry: {A: -1, B: 1, X: 1}}
  - {id: R3, stoichiometry: {P: -1, Q: 1}}
  - {id: R4, stoichiometry: {P: -1, Q: 1, X: 1}}
`

// Two disjoint copies of Figure 1 and a triangle X -> 2Y, Y -> Z, Z -> X
// whose full-rank block leaves X, Y and Z outside every conservation vector.
const twoLoopsTriangleYAML = `
id: two_loops_triangle
metabolites:
  - {id: A}
  - {id: Ap}
  - {id: B}
  - {id: Bp}
  - {id: C}
  - {id: Cp}
  - {id: D}
  - {id: Dp}
  - {id: E}
  - {id: Ep}
  - {id: F}
  - {id: Fp}
  - {id: X}
  - {id: "Y"}
  - {id: Z}
reactions:
  - {id: R1, stoichiometry: {A: -1, Ap: -1, B: 1}}
  - {id: R2, stoichiometry: {B: -1, Bp: -1, C: 1}}
  - {id: R3, stoichiometry: {C: -1, Cp: -2, A: 1}}
  - {id: R4, stoichiometry: {D: -1, Dp: -1, E: 1}}
  - {id: R5, stoichiometry: {E: -1, Ep: -1, F: 1}}
  - {id: R6, stoichiometry: {F: -1, Fp: -2, D: 1}}
  - {id: R7, stoichiometry: {X: -1, "Y": 2}}
  - {id: R8, stoichiometry: {"Y": -1, Z: 1}}
  - {id: R9, stoichiometry: {Z: -1, X: 1}}
`

const consistentYAML = `
id: consistent
metabolites: [{id: A}, {id: B}, {id: C}]
reactions:
  - {id: R1, reversible: true, stoichiometry: {A: -1, B: 1}}
  - {id: R2, stoichiometry: {A: -1, B: -1, C: 1}}
`

func load(t testing.TB, src string) *metabolic.Model {
	t.Helper()
	m, err := metabolic.DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	return m
}

type StoichiometricSuite struct {
	suite.Suite
	ctx context.Context
	c   *consistency.Checker
}

func (s *StoichiometricSuite) SetupTest() {
	s.ctx = context.Background()
	s.c = consistency.New(simplex.New(), consistency.WithLogger(zaptest.NewLogger(s.T())))
}

func TestStoichiometricSuite(t *testing.T) { suite.Run(t, new(StoichiometricSuite)) }

func (s *StoichiometricSuite) TestFigure1() {
	m := load(s.T(), fig1YAML)

	ok, err := s.c.IsConsistent(s.ctx, m)
	s.Require().NoError(err)
	s.False(ok)

	unconserved, err := s.c.FindUnconserved(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]string{"Ap", "Bp", "Cp"}, unconserved)

	sets, err := s.c.FindMinimalViolations(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]consistency.MetaboliteSet{{"Ap", "Bp", "Cp"}}, sets)
	s.Equal("(Ap, Bp, Cp)", sets[0].String())
}

func (s *StoichiometricSuite) TestEquation8() {
	m := load(s.T(), eq8YAML)

	ok, err := s.c.IsConsistent(s.ctx, m)
	s.Require().NoError(err)
	s.False(ok)

	unconserved, err := s.c.FindUnconserved(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]string{"A", "B", "C"}, unconserved)

	sets, err := s.c.FindMinimalViolations(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]consistency.MetaboliteSet{{"A"}, {"B"}, {"C"}}, sets)
}

func (s *StoichiometricSuite) TestFigure2() {
	m := load(s.T(), fig2YAML)

	unconserved, err := s.c.FindUnconserved(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]string{"X"}, unconserved)

	sets, err := s.c.FindMinimalViolations(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]consistency.MetaboliteSet{{"X"}}, sets)
}

func (s *StoichiometricSuite) TestConsistent() {
	m := load(s.T(), consistentYAML)

	ok, err := s.c.IsConsistent(s.ctx, m)
	s.Require().NoError(err)
	s.True(ok)

	unconserved, err := s.c.FindUnconserved(s.ctx, m)
	s.Require().NoError(err)
	s.Empty(unconserved)

	sets, err := s.c.FindMinimalViolations(s.ctx, m)
	s.Require().NoError(err)
	s.Empty(sets)
}

func (s *StoichiometricSuite) TestEmptyModel() {
	m := metabolic.NewModel("empty")
	ok, err := s.c.IsConsistent(s.ctx, m)
	s.Require().NoError(err)
	s.True(ok)

	unconserved, err := s.c.FindUnconserved(s.ctx, m)
	s.Require().NoError(err)
	s.Empty(unconserved)
}

func (s *StoichiometricSuite) TestNilModel() {
	_, err := s.c.IsConsistent(s.ctx, nil)
	s.ErrorIs(err, consistency.ErrNilModel)
	_, err = s.c.FindUnconserved(s.ctx, nil)
	s.ErrorIs(err, consistency.ErrNilModel)
	_, err = s.c.FindMinimalViolations(s.ctx, nil)
	s.ErrorIs(err, consistency.ErrNilModel)
}

func (s *StoichiometricSuite) TestRepeatedCallsAgree() {
	for _, src := range []string{fig1YAML, eq8YAML, consistentYAML} {
		m := load(s.T(), src)

		ok1, err := s.c.IsConsistent(s.ctx, m)
		s.Require().NoError(err)
		ok2, err := s.c.IsConsistent(s.ctx, m)
		s.Require().NoError(err)
		s.Equal(ok1, ok2, m.ID())

		u1, err := s.c.FindUnconserved(s.ctx, m)
		s.Require().NoError(err)
		u2, err := s.c.FindUnconserved(s.ctx, m)
		s.Require().NoError(err)
		s.Equal(u1, u2, m.ID())
	}
}

func (s *StoichiometricSuite) TestMinimalSetsAreMinimal() {
	m := load(s.T(), twoLoopsTriangleYAML)

	sets, err := s.c.FindMinimalViolations(s.ctx, m)
	s.Require().NoError(err)
	s.Equal([]consistency.MetaboliteSet{
		{"X"}, {"Y"}, {"Z"},
		{"Ap", "Bp", "Cp"}, {"Dp", "Ep", "Fp"},
	}, sets)

	for i, a := range sets {
		for j, b := range sets {
			if i != j {
				s.False(isSubset(a, b), "%s within %s", a, b)
			}
		}
	}

	st, err := m.InternalStoichiometry()
	s.Require().NoError(err)
	kernel, err := matrix.LeftNullspace(st.Mat, matrix.WithAbsTol(consistency.DefaultAbsTol))
	s.Require().NoError(err)
	for _, set := range sets {
		if len(set) < 2 {
			continue
		}
		s.Equal(optim.StatusOptimal, s.forceMass(st, kernel, set), set.String())
		for drop := range set {
			sub := append(append(consistency.MetaboliteSet{}, set[:drop]...), set[drop+1:]...)
			s.Equal(optim.StatusInfeasible, s.forceMass(st, kernel, sub), sub.String())
		}
	}
}

// forceMass solves Kᵀ·y = 0 with y ≥ 0 supported on set and Σy ≥ 1e-3.
func (s *StoichiometricSuite) forceMass(st *matrix.Stoichiometry, kernel *matrix.Dense, set consistency.MetaboliteSet) optim.Status {
	p := optim.NewProblem("forced")
	vars := make([]int, len(set))
	for i, id := range set {
		v, err := p.AddVariable(id, 0, optim.Inf, optim.Continuous)
		s.Require().NoError(err)
		vars[i] = v
	}
	for j := 0; j < kernel.Cols(); j++ {
		col := kernel.Col(j)
		var expr optim.Expr
		for i, id := range set {
			if coef := col[st.MetIndex[id]]; coef != 0 {
				expr = append(expr, optim.Term{Var: vars[i], Coef: coef})
			}
		}
		if len(expr) > 0 {
			s.Require().NoError(p.AddConstraint(fmt.Sprintf("ns_%d", j), expr, 0, 0))
		}
	}
	s.Require().NoError(p.AddConstraint("support", optim.Sum(vars...), consistency.TargetMassLowerBound, optim.Inf))
	s.Require().NoError(p.SetObjective(optim.Sum(vars...), optim.Minimize))

	sol, err := simplex.New().Solve(s.ctx, p)
	s.Require().NoError(err)

	return sol.Status
}

func isSubset(a, b consistency.MetaboliteSet) bool {
	if len(a) >= len(b) {
		return false
	}
	in := make(map[string]bool, len(b))
	for _, id := range b {
		in[id] = true
	}
	for _, id := range a {
		if !in[id] {
			return false
		}
	}

	return true
}

func TestIsConsistent_Formulation(t *testing.T) {
	stub := optimtest.New(optimtest.Optimal(6, nil))
	c := consistency.New(stub)

	ok, err := c.IsConsistent(context.Background(), load(t, fig1YAML))
	require.NoError(t, err)
	require.True(t, ok)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	p := calls[0]
	require.Equal(t, 6, p.NumVariables())
	for _, v := range p.Variables() {
		require.Equal(t, 1.0, v.Lower, v.Name)
		require.True(t, math.IsInf(v.Upper, 1), v.Name)
		require.Equal(t, optim.Continuous, v.Kind)
	}
	require.Equal(t, 3, p.NumConstraints())
	r3, ok := p.Constraint("R3")
	require.True(t, ok)
	require.Equal(t, 0.0, r3.Lower)
	require.Equal(t, 0.0, r3.Upper)
	a, _ := p.VarIndex("A")
	cc, _ := p.VarIndex("C")
	cp, _ := p.VarIndex("Cp")
	require.ElementsMatch(t, optim.Expr{{Var: a, Coef: 1}, {Var: cc, Coef: -1}, {Var: cp, Coef: -2}}, r3.Expr)
	require.Equal(t, optim.Minimize, p.Objective().Direction)
	require.Len(t, p.Objective().Expr, 6)
}

func TestFindUnconserved_Formulation(t *testing.T) {
	stub := optimtest.New(optimtest.Optimal(3, map[string]float64{"k_A": 1, "k_B": 0.9, "k_C": 0.79}))
	c := consistency.New(stub)

	got, err := c.FindUnconserved(context.Background(), load(t, eq8YAML))
	require.NoError(t, err)
	require.Equal(t, []string{"C"}, got)

	p := stub.Calls()[0]
	require.Equal(t, 6, p.NumVariables())
	k, ok := p.VarIndex("k_B")
	require.True(t, ok)
	kv, err := p.Variable(k)
	require.NoError(t, err)
	require.Equal(t, optim.Binary, kv.Kind)

	sw, ok := p.Constraint("switch_B")
	require.True(t, ok)
	require.True(t, math.IsInf(sw.Lower, -1))
	require.Equal(t, 0.0, sw.Upper)
	y, _ := p.VarIndex("B")
	require.ElementsMatch(t, optim.Expr{{Var: y, Coef: -1}, {Var: k, Coef: 1}}, sw.Expr)
	require.Equal(t, optim.Maximize, p.Objective().Direction)
}

func TestStatusErrors(t *testing.T) {
	ctx := context.Background()
	m := load(t, fig1YAML)

	c := consistency.New(optimtest.New(optimtest.Status(optim.StatusUnbounded)))
	_, err := c.IsConsistent(ctx, m)
	require.ErrorIs(t, err, consistency.ErrUnexpectedStatus)
	var se *consistency.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, optim.StatusUnbounded, se.Status)
	require.Contains(t, se.Error(), "unbounded")

	c = consistency.New(optimtest.New(optimtest.Status(optim.StatusInfeasible)))
	_, err = c.FindUnconserved(ctx, m)
	require.ErrorIs(t, err, consistency.ErrUnexpectedStatus)
}

func TestFindMinimalViolations_CutLoop(t *testing.T) {
	// IsConsistent -> infeasible; FindUnconserved -> Ap, Bp, Cp; then per
	// target: a two-element set, a singleton, and a closing infeasible solve.
	stub := optimtest.New(
		optimtest.Status(optim.StatusInfeasible),
		optimtest.Optimal(3, map[string]float64{"k_A": 1, "k_B": 1, "k_C": 1}),
		optimtest.Optimal(2, map[string]float64{"k_Ap": 1, "k_Bp": 0.5}),
		optimtest.Optimal(1, map[string]float64{"k_Ap": 1}),
		optimtest.Status(optim.StatusInfeasible),
	)
	c := consistency.New(stub, consistency.WithMaxTargets(3))

	sets, err := c.FindMinimalViolations(context.Background(), load(t, fig1YAML))
	require.NoError(t, err)
	require.Equal(t, []consistency.MetaboliteSet{{"Ap"}, {"Ap", "Bp"}}, sets)

	calls := stub.Calls()
	require.Len(t, calls, 6)

	// second MILP solve carries the cut for the two-element set
	cut := calls[3].Constraints()
	last := cut[len(cut)-1]
	require.True(t, strings.HasPrefix(last.Name, "cut_Ap_"))
	require.Equal(t, 1.0, last.Upper)
	require.Len(t, last.Expr, 6)

	// the target bound and the cut are gone for each following target
	requireLower := func(p *optim.Problem, name string, want float64) {
		t.Helper()
		i, ok := p.VarIndex(name)
		require.True(t, ok, name)
		v, err := p.Variable(i)
		require.NoError(t, err)
		require.Equal(t, want, v.Lower, name)
	}
	requireLower(calls[4], "Ap", 0)
	requireLower(calls[4], "Bp", consistency.TargetMassLowerBound)
	requireLower(calls[5], "Ap", 0)
	requireLower(calls[5], "Bp", 0)
	requireLower(calls[5], "Cp", consistency.TargetMassLowerBound)
	for _, p := range calls[4:] {
		for _, con := range p.Constraints() {
			require.False(t, strings.HasPrefix(con.Name, "cut_"), con.Name)
		}
	}
}

func TestFindMinimalViolations_MaxTargets(t *testing.T) {
	// two sets found for Ap exhaust the budget; Bp and Cp are never solved
	stub := optimtest.New(
		optimtest.Status(optim.StatusInfeasible),
		optimtest.Optimal(3, map[string]float64{"k_A": 1, "k_B": 1, "k_C": 1}),
		optimtest.Optimal(2, map[string]float64{"k_Ap": 1, "k_Bp": 0.5}),
		optimtest.Optimal(1, map[string]float64{"k_Ap": 1}),
		optimtest.Status(optim.StatusInfeasible),
	)
	c := consistency.New(stub, consistency.WithMaxTargets(2))

	sets, err := c.FindMinimalViolations(context.Background(), load(t, fig1YAML))
	require.NoError(t, err)
	require.Equal(t, []consistency.MetaboliteSet{{"Ap"}, {"Ap", "Bp"}}, sets)
	require.Len(t, stub.Calls(), 4)
}

func TestFindMinimalViolations_NonOptimalIsFatal(t *testing.T) {
	for _, st := range []optim.Status{optim.StatusOther, optim.StatusUnbounded} {
		t.Run(st.String(), func(t *testing.T) {
			stub := optimtest.New(
				optimtest.Status(optim.StatusInfeasible),
				optimtest.Optimal(3, map[string]float64{"k_A": 1, "k_B": 1, "k_C": 1}),
				optimtest.Status(st),
			)
			c := consistency.New(stub)

			sets, err := c.FindMinimalViolations(context.Background(), load(t, fig1YAML))
			require.Nil(t, sets)
			require.ErrorIs(t, err, consistency.ErrUnexpectedStatus)
			var se *consistency.StatusError
			require.True(t, errors.As(err, &se))
			require.Equal(t, st, se.Status)
			require.Len(t, stub.Calls(), 3)
		})
	}
}

func TestThresholds(t *testing.T) {
	require.True(t, consistency.IsUnconserved(0.79))
	require.False(t, consistency.IsUnconserved(0.8))
	require.True(t, consistency.IsMember(0.21))
	require.False(t, consistency.IsMember(0.2))
}

func TestNew_Panics(t *testing.T) {
	require.Panics(t, func() { consistency.New(nil) })
	require.Panics(t, func() { consistency.WithMaxTargets(0) })
	require.Panics(t, func() { consistency.WithParallelism(0) })
	require.Panics(t, func() { consistency.WithAbsTol(-1) })
	require.Panics(t, func() { consistency.WithAbsTol(math.NaN()) })
}
