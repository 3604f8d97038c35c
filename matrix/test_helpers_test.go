// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic stoichiometric fixtures for the builder and
//     the rank/nullspace engine.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/matrix"
)

// eps is the absolute tolerance for floating comparisons in tests.
const eps = 1e-12

// MustDense builds a Dense from rows or fails the test.
func MustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// triangle is the closed cycle A→B→C→A (3 metabolites, 3 reactions).
func triangle(t *testing.T) *matrix.Dense {
	return MustDense(t, [][]float64{
		{-1, 0, 1}, // A
		{1, -1, 0}, // B
		{0, 1, -1}, // C
	})
}

// closedChain is A↔B↔C without boundary reactions (3 metabolites, 2 reactions).
func closedChain(t *testing.T) *matrix.Dense {
	return MustDense(t, [][]float64{
		{-1, 0}, // A
		{1, -1}, // B
		{0, 1},  // C
	})
}

// requireAnnihilates asserts m·basis[:,j] ≈ 0 and ‖basis[:,j]‖ = 1 for every column.
func requireAnnihilates(t *testing.T, m matrix.Matrix, basis *matrix.Dense) {
	t.Helper()
	for j := 0; j < basis.Cols(); j++ {
		col := basis.Col(j)
		y, err := matrix.MatVec(m, col)
		require.NoError(t, err)
		for i, v := range y {
			require.InDeltaf(t, 0.0, v, 1e-10, "row %d of M·v[%d]", i, j)
		}
		var norm float64
		for _, v := range col {
			norm += v * v
		}
		require.InDelta(t, 1.0, norm, 1e-10) // unit length
	}
}
