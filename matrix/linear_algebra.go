// SPDX-License-Identifier: MIT
// Package matrix: elementary kernels shared by the rank/nullspace engine and
// by callers verifying results (Transpose, MatVec), plus the bridge into
// gonum's dense type.
//
// Notes:
//   - Fast paths operate on *Dense flat storage; other Matrix implementations
//     go through At/Set with fixed i→j loop order.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ZeroSum is the initial sum value for dot products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opTranspose     = "Transpose"
	opMatVec        = "MatVec"
	opRank          = "Rank"
	opNullspace     = "Nullspace"
	opLeftNullspace = "LeftNullspace"
	opBuild         = "BuildStoichiometry"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Transpose returns a newly allocated m^T.
//
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		var baseSrc int
		for i = 0; i < rows; i++ {
			baseSrc = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[baseSrc+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Complexity: Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	var i, j int
	var acc, v float64
	var err error
	for i = 0; i < rows; i++ {
		acc = ZeroSum
		for j = 0; j < cols; j++ {
			if x[j] == 0 {
				continue // skip zero multiplications
			}
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			acc += v * x[j]
		}
		y[i] = acc
	}

	return y, nil
}

// toGonum copies m into a gonum *mat.Dense. The caller must ensure both
// dimensions are positive: gonum panics on zero-length shapes.
func toGonum(m Matrix) (*mat.Dense, error) {
	rows, cols := m.Rows(), m.Cols()
	if dm, ok := m.(*Dense); ok {
		buf := make([]float64, len(dm.data))
		copy(buf, dm.data)

		return mat.NewDense(rows, cols, buf), nil
	}
	out := mat.NewDense(rows, cols, nil)
	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			out.Set(i, j, v)
		}
	}

	return out, nil
}
