package optim_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/optim"
	"github.com/katalvlaran/stoich/optim/optimtest"
)

func TestProblem_Variables(t *testing.T) {
	p := optim.NewProblem("t")
	x, err := p.AddVariable("x", 0, optim.Inf, optim.Continuous)
	require.NoError(t, err)
	k, err := p.AddVariable("k", 0, 1, optim.Binary)
	require.NoError(t, err)

	require.Equal(t, 0, x)
	require.Equal(t, 1, k)
	require.True(t, p.HasIntegers())
	i, ok := p.VarIndex("k")
	require.True(t, ok)
	require.Equal(t, k, i)

	_, err = p.AddVariable("x", 0, 1, optim.Continuous)
	require.ErrorIs(t, err, optim.ErrDuplicateName)
	_, err = p.AddVariable("bad", 2, 1, optim.Continuous)
	require.ErrorIs(t, err, optim.ErrInvalidBounds)
	_, err = p.AddVariable("b2", 0, 2, optim.Binary)
	require.ErrorIs(t, err, optim.ErrInvalidBounds)
	_, err = p.AddVariable("", 0, 1, optim.Continuous)
	require.ErrorIs(t, err, optim.ErrEmptyName)

	require.NoError(t, p.SetLower(x, 1e-3))
	v, err := p.Variable(x)
	require.NoError(t, err)
	require.Equal(t, 1e-3, v.Lower)
	require.True(t, math.IsInf(v.Upper, 1))
	require.ErrorIs(t, p.SetBounds(9, 0, 1), optim.ErrUnknownVariable)
}

func TestProblem_ConstraintsAndCuts(t *testing.T) {
	p := optim.NewProblem("t")
	a, _ := p.AddVariable("a", 0, 1, optim.Continuous)
	b, _ := p.AddVariable("b", 0, 1, optim.Continuous)

	// duplicate terms merge, zeros vanish
	require.NoError(t, p.AddConstraint("c1", optim.Expr{{a, 1}, {b, 2}, {a, 1}, {b, -2}}, 0, 0))
	c, ok := p.Constraint("c1")
	require.True(t, ok)
	require.Equal(t, optim.Expr{{Var: a, Coef: 2}}, c.Expr)

	require.NoError(t, p.AddConstraint("cut", optim.Sum(a, b), -optim.Inf, 1))
	require.ErrorIs(t, p.AddConstraint("cut", nil, 0, 0), optim.ErrDuplicateName)
	require.ErrorIs(t, p.AddConstraint("bad", optim.Expr{{7, 1}}, 0, 0), optim.ErrUnknownVariable)
	require.ErrorIs(t, p.AddConstraint("nan", nil, math.NaN(), 0), optim.ErrInvalidBounds)
	require.Equal(t, 2, p.NumConstraints())

	require.NoError(t, p.RemoveConstraint("c1"))
	require.ErrorIs(t, p.RemoveConstraint("c1"), optim.ErrUnknownConstraint)
	cons := p.Constraints()
	require.Len(t, cons, 1)
	require.Equal(t, "cut", cons[0].Name)
	_, ok = p.Constraint("cut") // index rebuilt after removal
	require.True(t, ok)
}

func TestProblem_SetCoefficient(t *testing.T) {
	p := optim.NewProblem("t")
	x, _ := p.AddVariable("x", 0, 1, optim.Continuous)
	s, _ := p.AddVariable("sink", 0, 1000, optim.Continuous)
	require.NoError(t, p.AddConstraint("A", optim.Expr{{x, 1}}, 0, 0))

	require.NoError(t, p.SetCoefficient("A", s, -1))
	c, _ := p.Constraint("A")
	require.Equal(t, optim.Expr{{Var: x, Coef: 1}, {Var: s, Coef: -1}}, c.Expr)

	require.NoError(t, p.SetCoefficient("A", s, 0)) // decouple
	c, _ = p.Constraint("A")
	require.Equal(t, optim.Expr{{Var: x, Coef: 1}}, c.Expr)

	require.ErrorIs(t, p.SetCoefficient("Z", s, 1), optim.ErrUnknownConstraint)
	require.ErrorIs(t, p.SetCoefficient("A", 5, 1), optim.ErrUnknownVariable)
}

func TestProblem_CloneIsIndependent(t *testing.T) {
	p := optim.NewProblem("t")
	x, _ := p.AddVariable("x", 0, 1, optim.Continuous)
	require.NoError(t, p.AddConstraint("A", optim.Expr{{x, 1}}, 0, 0))
	require.NoError(t, p.SetObjective(optim.Sum(x), optim.Maximize))

	q := p.Clone()
	require.NoError(t, q.SetBounds(x, 0, 5))
	require.NoError(t, q.SetCoefficient("A", x, 3))
	require.NoError(t, q.AddConstraint("B", nil, 0, 0))

	v, _ := p.Variable(x)
	require.Equal(t, 1.0, v.Upper)
	c, _ := p.Constraint("A")
	require.Equal(t, 1.0, c.Expr[0].Coef)
	require.Equal(t, 1, p.NumConstraints())
	require.Equal(t, optim.Maximize, q.Objective().Direction)
}

func TestExprEval(t *testing.T) {
	e := optim.Expr{{0, 2}, {2, -1}}
	require.Equal(t, 3.0, e.Eval([]float64{2, 100, 1}))
}

func TestStubSolver_Replays(t *testing.T) {
	p := optim.NewProblem("t")
	_, _ = p.AddVariable("x", 0, 1, optim.Continuous)
	s := optimtest.New(
		optimtest.Optimal(1, map[string]float64{"x": 0.5}),
		optimtest.Status(optim.StatusInfeasible),
	)

	sol, err := s.Solve(context.Background(), p)
	require.NoError(t, err)
	require.True(t, sol.IsOptimal())
	require.Equal(t, 0.5, sol.Value(0))

	for i := 0; i < 2; i++ { // last reply repeats
		sol, err = s.Solve(context.Background(), p)
		require.NoError(t, err)
		require.True(t, sol.IsInfeasible())
		require.True(t, math.IsNaN(sol.Value(0)))
	}
	require.Len(t, s.Calls(), 3)
	require.Equal(t, "infeasible", optim.StatusInfeasible.String())
}
