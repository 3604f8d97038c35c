// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/matrix"
)

func TestBuildStoichiometry_Layout(t *testing.T) {
	s, err := matrix.BuildStoichiometry(
		[]string{"A", "B", "C"},
		[]matrix.Column{
			{ID: "R1", Coefficients: map[string]float64{"A": -1, "B": 1}},
			{ID: "R2", Coefficients: map[string]float64{"B": -2, "C": 1}},
		},
	)
	require.NoError(t, err)

	require.Equal(t, 3, s.Mat.Rows())
	require.Equal(t, 2, s.Mat.Cols())
	require.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, s.MetIndex)
	require.Equal(t, map[string]int{"R1": 0, "R2": 1}, s.RxnIndex)
	require.Equal(t, []string{"R1", "R2"}, s.Reactions)

	v, err := s.Coefficient("B", "R2")
	require.NoError(t, err)
	require.Equal(t, -2.0, v)
	v, err = s.Coefficient("C", "R1")
	require.NoError(t, err)
	require.Zero(t, v) // absent ⇒ 0

	_, err = s.Coefficient("Z", "R1")
	require.ErrorIs(t, err, matrix.ErrUnknownID)
}

func TestBuildStoichiometry_Rejects(t *testing.T) {
	_, err := matrix.BuildStoichiometry([]string{"A", "A"}, nil)
	require.ErrorIs(t, err, matrix.ErrDuplicateID)

	_, err = matrix.BuildStoichiometry([]string{""}, nil)
	require.ErrorIs(t, err, matrix.ErrEmptyID)

	_, err = matrix.BuildStoichiometry([]string{"A"}, []matrix.Column{{ID: "R"}, {ID: "R"}})
	require.ErrorIs(t, err, matrix.ErrDuplicateID)

	_, err = matrix.BuildStoichiometry([]string{"A"}, []matrix.Column{
		{ID: "R", Coefficients: map[string]float64{"X": 1}},
	})
	require.ErrorIs(t, err, matrix.ErrUnknownID)
}

func TestBuildStoichiometry_Empty(t *testing.T) {
	s, err := matrix.BuildStoichiometry(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, s.Mat.Rows())
	require.Equal(t, 0, s.Mat.Cols())
}
