// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/matrix"
)

func TestRank_Fixtures(t *testing.T) {
	cases := []struct {
		name string
		m    *matrix.Dense
		want int
	}{
		{"triangle", triangle(t), 2},
		{"closed chain", closedChain(t), 2},
		{"identity", MustDense(t, [][]float64{{1, 0}, {0, 1}}), 2},
		{"zeros", MustDense(t, [][]float64{{0, 0}, {0, 0}}), 0},
		{"wide", MustDense(t, [][]float64{{1, 2, 3}}), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := matrix.Rank(tc.m)
			require.NoError(t, err)
			require.Equal(t, tc.want, r)
		})
	}
}

func TestRank_RelativeTolerance(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 0}, {0, 1e-6}})

	r, err := matrix.Rank(m)
	require.NoError(t, err)
	require.Equal(t, 2, r)

	// 1e-6 < 1e-3·σmax ⇒ treated as zero
	r, err = matrix.Rank(m, matrix.WithRelTol(1e-3))
	require.NoError(t, err)
	require.Equal(t, 1, r)
}

func TestNullspace_Triangle(t *testing.T) {
	s := triangle(t)
	ns, err := matrix.Nullspace(s)
	require.NoError(t, err)

	require.Equal(t, 3, ns.Rows())
	require.Equal(t, 1, ns.Cols()) // one cycle
	requireAnnihilates(t, s, ns)
	want := 1 / math.Sqrt(3)
	for i := 0; i < 3; i++ {
		require.InDelta(t, want, MustAt(t, ns, i, 0), eps) // positive by sign convention
	}
}

func TestLeftNullspace_ClosedChain(t *testing.T) {
	s := closedChain(t)
	left, err := matrix.LeftNullspace(s)
	require.NoError(t, err)

	require.Equal(t, 3, left.Rows())
	require.Equal(t, 1, left.Cols()) // A+B+C is conserved
	st, err := matrix.Transpose(s)
	require.NoError(t, err)
	requireAnnihilates(t, st, left)

	right, err := matrix.Nullspace(s)
	require.NoError(t, err)
	require.Equal(t, 0, right.Cols()) // full column rank
}

func TestNullspace_ClampsDust(t *testing.T) {
	// x1 = x2, x3 unconstrained ⇒ basis has an exact-zero coordinate.
	s := MustDense(t, [][]float64{{1, -1, 0}})
	ns, err := matrix.Nullspace(s)
	require.NoError(t, err)
	require.Equal(t, 2, ns.Cols())
	requireAnnihilates(t, s, ns)

	left, err := matrix.LeftNullspace(MustDense(t, [][]float64{
		{1, 0},
		{0, 1},
		{0, 0}, // metabolite in no reaction
	}))
	require.NoError(t, err)
	require.Equal(t, 1, left.Cols())
	require.True(t, left.IsZeroRow(0))
	require.True(t, left.IsZeroRow(1))
	require.InDelta(t, 1.0, MustAt(t, left, 2, 0), eps)
}

func TestNullspace_DegenerateShapes(t *testing.T) {
	empty, err := matrix.NewDense(0, 3)
	require.NoError(t, err)
	ns, err := matrix.Nullspace(empty)
	require.NoError(t, err)
	require.Equal(t, 3, ns.Cols()) // identity basis
	require.Equal(t, 1.0, MustAt(t, ns, 2, 2))

	noCols, err := matrix.NewDense(4, 0)
	require.NoError(t, err)
	ns, err = matrix.Nullspace(noCols)
	require.NoError(t, err)
	require.Equal(t, 0, ns.Cols())

	left, err := matrix.LeftNullspace(noCols)
	require.NoError(t, err)
	require.Equal(t, 4, left.Cols()) // every metabolite is its own relation

	r, err := matrix.Rank(noCols)
	require.NoError(t, err)
	require.Zero(t, r)
}

func TestNullspace_Deterministic(t *testing.T) {
	s := MustDense(t, [][]float64{
		{-1, -1, 0, 0},
		{1, 0, -1, 0},
		{0, 1, 1, -1},
	})
	a, err := matrix.Nullspace(s)
	require.NoError(t, err)
	b, err := matrix.Nullspace(s)
	require.NoError(t, err)
	require.Equal(t, a.String(), b.String())
}

func TestWithAbsTol_PanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { matrix.WithAbsTol(-1) })
	require.Panics(t, func() { matrix.WithRelTol(math.NaN()) })
	require.NotPanics(t, func() { matrix.WithAbsTol(0) })
}

func TestNullspace_Nil(t *testing.T) {
	_, err := matrix.Nullspace(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.Rank(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
