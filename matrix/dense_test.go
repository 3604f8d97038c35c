// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/matrix"
)

func TestNewDense_ZeroShapesAreLegal(t *testing.T) {
	for _, tc := range []struct{ r, c int }{{0, 0}, {0, 4}, {3, 0}, {2, 2}} {
		m, err := matrix.NewDense(tc.r, tc.c)
		require.NoError(t, err)
		require.Equal(t, tc.r, m.Rows())
		require.Equal(t, tc.c, m.Cols())
	}

	_, err := matrix.NewDense(-1, 2)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_AtSetBounds(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2}, {3, 4}})

	require.Equal(t, 3.0, MustAt(t, m, 1, 0))
	_, err := m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 5, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	require.Equal(t, 1.0, MustAt(t, m, 0, 0)) // original untouched
	require.Equal(t, 9.0, MustAt(t, c, 0, 0))
}

func TestDense_RowColAndZeroRow(t *testing.T) {
	m := MustDense(t, [][]float64{
		{0, 0, 0},
		{1, 0, -2},
	})

	require.True(t, m.IsZeroRow(0))
	require.False(t, m.IsZeroRow(1))
	require.False(t, m.IsZeroRow(7)) // out of range
	require.Equal(t, []float64{1, 0, -2}, m.Row(1))
	require.Equal(t, []float64{0, -2}, m.Col(2))
	require.Nil(t, m.Row(-1))
}

func TestNewDenseFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestTranspose(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	tr, err := matrix.Transpose(m)
	require.NoError(t, err)

	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Cols())
	require.Equal(t, 6.0, MustAt(t, tr, 2, 1))
	require.Equal(t, "[1, 4]\n[2, 5]\n[3, 6]\n", tr.String())

	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMatVec_LengthMismatch(t *testing.T) {
	m := MustDense(t, [][]float64{{1, 2}})
	_, err := matrix.MatVec(m, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	y, err := matrix.MatVec(m, []float64{1, 1})
	require.NoError(t, err)
	require.Equal(t, []float64{3}, y)
}
