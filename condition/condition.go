// SPDX-License-Identifier: MIT
//
// File: condition.go
// Role: numeric condition of the full stoichiometric matrix.
// Contract:
//   - Every function works on FullStoichiometry (all metabolites × all
//     reactions, IDs ascending).
//   - Rank, ConservationRelations and DegreesOfFreedom obey
//     rank + relations = #metabolites and rank + dof = #reactions.

package condition

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/stoich/matrix"
	"github.com/katalvlaran/stoich/metabolic"
)

// Sentinel errors.
var (
	// ErrEmptyMatrix is returned when the matrix holds no non-zero coefficient.
	ErrEmptyMatrix = errors.New("condition: empty stoichiometric matrix")

	// ErrNilModel is returned when a nil model is passed.
	ErrNilModel = errors.New("condition: nil model")
)

func full(m *metabolic.Model) (*matrix.Dense, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	st, err := m.FullStoichiometry()
	if err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	if st.Mat.Rows() == 0 || st.Mat.Cols() == 0 {
		return nil, ErrEmptyMatrix
	}

	return st.Mat, nil
}

// ExtremeCoefficients returns the largest and the smallest non-zero
// absolute coefficient.
func ExtremeCoefficients(m *metabolic.Model) (hi, lo float64, err error) {
	s, err := full(m)
	if err != nil {
		return 0, 0, err
	}
	lo = math.Inf(1)
	s.Do(func(_, _ int, v float64) bool {
		if a := math.Abs(v); a > 0 {
			hi = math.Max(hi, a)
			lo = math.Min(lo, a)
		}
		return true
	})
	if hi == 0 {
		return 0, 0, ErrEmptyMatrix
	}

	return hi, lo, nil
}

// CoefficientRatio returns max|s| / min|s| over the non-zero coefficients.
func CoefficientRatio(m *metabolic.Model) (float64, error) {
	hi, lo, err := ExtremeCoefficients(m)
	if err != nil {
		return 0, err
	}

	return hi / lo, nil
}

// Rank returns the numeric rank of the stoichiometric matrix.
func Rank(m *metabolic.Model, opts ...matrix.Option) (int, error) {
	s, err := full(m)
	if err != nil {
		return 0, err
	}
	r, err := matrix.Rank(s, opts...)
	if err != nil {
		return 0, fmt.Errorf("condition: %w", err)
	}

	return r, nil
}

// ConservationRelations returns the number of independent conserved
// metabolite pools, the dimension of the left nullspace.
func ConservationRelations(m *metabolic.Model, opts ...matrix.Option) (int, error) {
	s, err := full(m)
	if err != nil {
		return 0, err
	}
	k, err := matrix.LeftNullspace(s, opts...)
	if err != nil {
		return 0, fmt.Errorf("condition: %w", err)
	}

	return k.Cols(), nil
}

// DegreesOfFreedom returns #reactions − rank, the dimension of the
// (right) nullspace.
func DegreesOfFreedom(m *metabolic.Model, opts ...matrix.Option) (int, error) {
	s, err := full(m)
	if err != nil {
		return 0, err
	}
	r, err := matrix.Rank(s, opts...)
	if err != nil {
		return 0, fmt.Errorf("condition: %w", err)
	}

	return s.Cols() - r, nil
}

// Report bundles every condition metric.
type Report struct {
	MaxCoefficient        float64 `json:"max_coefficient"`
	MinCoefficient        float64 `json:"min_coefficient"`
	CoefficientRatio      float64 `json:"coefficient_ratio"`
	Rank                  int     `json:"rank"`
	ConservationRelations int     `json:"conservation_relations"`
	DegreesOfFreedom      int     `json:"degrees_of_freedom"`
}

// Analyze computes a Report.
func Analyze(m *metabolic.Model, opts ...matrix.Option) (*Report, error) {
	hi, lo, err := ExtremeCoefficients(m)
	if err != nil {
		return nil, err
	}
	rep := &Report{MaxCoefficient: hi, MinCoefficient: lo, CoefficientRatio: hi / lo}
	if rep.Rank, err = Rank(m, opts...); err != nil {
		return nil, err
	}
	if rep.ConservationRelations, err = ConservationRelations(m, opts...); err != nil {
		return nil, err
	}
	if rep.DegreesOfFreedom, err = DegreesOfFreedom(m, opts...); err != nil {
		return nil, err
	}

	return rep, nil
}
