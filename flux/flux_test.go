package flux_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/flux"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
	"github.com/katalvlaran/stoich/optim/optimtest"
	"github.com/katalvlaran/stoich/optim/simplex"
)

// A linear pathway: -> A -> B -> , with a reversible side branch A <-> C.
const pathwayYAML = `
id: pathway
metabolites: [{id: A}, {id: B}, {id: C}]
reactions:
  - {id: IN, lower: 0, upper: 10, stoichiometry: {A: 1}}
  - {id: R1, stoichiometry: {A: -1, B: 1}}
  - {id: OUT, stoichiometry: {B: -1}}
  - {id: SIDE, reversible: true, stoichiometry: {A: -1, C: 1}}
objective: {OUT: 1}
`

func load(t *testing.T, src string) *metabolic.Model {
	t.Helper()
	m, err := metabolic.DecodeYAML(strings.NewReader(src))
	require.NoError(t, err)

	return m
}

func TestNewProblem_Formulation(t *testing.T) {
	p, err := flux.NewProblem(load(t, pathwayYAML))
	require.NoError(t, err)

	require.Equal(t, []string{"IN", "OUT", "R1", "SIDE"}, p.Reactions)
	require.Equal(t, []string{"A", "B", "C"}, p.Metabolites)
	require.Equal(t, 4, p.NumVariables())
	require.Equal(t, 3, p.NumConstraints())

	a, ok := p.Constraint("A")
	require.True(t, ok)
	require.Equal(t, 0.0, a.Lower)
	require.Equal(t, 0.0, a.Upper)
	require.Equal(t, optim.Expr{{Var: 0, Coef: 1}, {Var: 2, Coef: -1}, {Var: 3, Coef: -1}}, a.Expr)

	v, err := p.Variable(3)
	require.NoError(t, err)
	require.Equal(t, -1000.0, v.Lower)

	obj := p.Objective()
	require.Equal(t, optim.Maximize, obj.Direction)
	require.Equal(t, optim.Expr{{Var: 1, Coef: 1}}, obj.Expr)

	_, err = flux.NewProblem(nil)
	require.ErrorIs(t, err, flux.ErrNilModel)
}

func TestOptimize(t *testing.T) {
	res, err := flux.Optimize(context.Background(), simplex.New(), load(t, pathwayYAML))
	require.NoError(t, err)
	require.True(t, res.Status == optim.StatusOptimal)
	require.InDelta(t, 10, res.Objective, 1e-6)
	require.InDelta(t, 10, res.Fluxes["R1"], 1e-6)
	require.InDelta(t, 0, res.Fluxes["SIDE"], 1e-6)
}

func TestOptimize_NonOptimal(t *testing.T) {
	stub := optimtest.New(optimtest.Status(optim.StatusInfeasible))
	res, err := flux.Optimize(context.Background(), stub, load(t, pathwayYAML))
	require.NoError(t, err)
	require.Equal(t, optim.StatusInfeasible, res.Status)
	require.Nil(t, res.Fluxes)

	_, err = flux.Optimize(context.Background(), nil, load(t, pathwayYAML))
	require.ErrorIs(t, err, flux.ErrNilSolver)
}

func TestVariability(t *testing.T) {
	ranges, err := flux.Variability(context.Background(), simplex.New(), load(t, pathwayYAML))
	require.NoError(t, err)
	require.Len(t, ranges, 4)

	// optimum forces everything through R1; SIDE is stuck at zero because C
	// has no outlet.
	for id, want := range map[string]flux.Range{
		"IN":   {10, 10},
		"R1":   {10, 10},
		"OUT":  {10, 10},
		"SIDE": {0, 0},
	} {
		require.InDelta(t, want.Min, ranges[id].Min, 1e-5, id)
		require.InDelta(t, want.Max, ranges[id].Max, 1e-5, id)
	}

	ranges, err = flux.Variability(context.Background(), simplex.New(), load(t, pathwayYAML),
		flux.WithFractionOfOptimum(0))
	require.NoError(t, err)
	require.InDelta(t, 0, ranges["OUT"].Min, 1e-5)
	require.InDelta(t, 10, ranges["OUT"].Max, 1e-5)
}

func TestVariability_Errors(t *testing.T) {
	m := load(t, pathwayYAML)
	_, err := flux.Variability(context.Background(), simplex.New(), m, flux.WithLoopless(true))
	require.ErrorIs(t, err, flux.ErrLooplessUnsupported)

	stub := optimtest.New(optimtest.Status(optim.StatusInfeasible))
	_, err = flux.Variability(context.Background(), stub, m)
	require.ErrorIs(t, err, flux.ErrNotOptimal)

	require.Panics(t, func() { flux.WithFractionOfOptimum(1.5) })
}

func TestVariability_PinsObjective(t *testing.T) {
	stub := optimtest.New(optimtest.Optimal(8, nil))
	_, err := flux.Variability(context.Background(), stub, load(t, pathwayYAML),
		flux.WithFractionOfOptimum(0.5))
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 1+2*4)
	c, ok := calls[1].Constraint("__fva_objective")
	require.True(t, ok)
	require.InDelta(t, 4, c.Lower, 1e-6)
	require.Equal(t, optim.Minimize, calls[1].Objective().Direction)
	require.Equal(t, optim.Maximize, calls[2].Objective().Direction)
}
