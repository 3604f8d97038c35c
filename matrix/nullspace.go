// SPDX-License-Identifier: MIT
// Package matrix: rank and nullspace engine.
//
// Purpose:
//   - Rank(m): count of singular values at or above the effective tolerance.
//   - Nullspace(m): orthonormal basis {v : m·v ≈ 0}, one basis vector per column.
//   - LeftNullspace(m): basis {y : mᵀ·y ≈ 0}, i.e. Nullspace(mᵀ).
//
// Implementation:
//   - Stage 1: full singular value decomposition via gonum mat.SVD (SVDFull).
//   - Stage 2: tol = max(absTol, relTol·σ_max); rank = #{σ_i ≥ tol}.
//   - Stage 3: the nullspace basis is the trailing (cols − rank) right singular vectors.
//   - Stage 4: clamp |v_ij| < absTol to exactly 0, renormalise each column to
//     unit length and flip its sign so the first non-zero entry is positive.
//
// Determinism:
//   - Same input ⇒ same basis bit-for-bit; the sign convention removes the
//     ± ambiguity inherent to singular vectors.
//
// Edge cases:
//   - r×0 input: rank 0, nullspace 0×0.
//   - 0×c input: rank 0, nullspace is the c×c identity.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// svdResult bundles what the rank/nullspace routines need from one factorisation.
type svdResult struct {
	values []float64  // singular values, descending, len = min(r,c)
	v      *mat.Dense // right singular vectors, c×c
}

// factorize runs a full SVD. Caller guarantees r>0 && c>0.
func factorize(m Matrix) (*svdResult, error) {
	g, err := toGonum(m)
	if err != nil {
		return nil, err
	}
	var svd mat.SVD
	if ok := svd.Factorize(g, mat.SVDFull); !ok {
		return nil, ErrSVDFailed
	}
	var v mat.Dense
	svd.VTo(&v)

	return &svdResult{values: svd.Values(nil), v: &v}, nil
}

// cutoff returns max(absTol, relTol·σ_max).
func (o Options) cutoff(values []float64) float64 {
	tol := o.absTol
	if len(values) > 0 && o.relTol*values[0] > tol {
		tol = o.relTol * values[0]
	}

	return tol
}

// rankOf counts singular values at or above tol.
func rankOf(values []float64, tol float64) int {
	n := 0
	for _, s := range values {
		if s >= tol {
			n++
		}
	}

	return n
}

// SingularValues returns the singular values of m in descending order.
// Empty shapes yield an empty slice.
func SingularValues(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRank, err)
	}
	if m.Rows() == 0 || m.Cols() == 0 {
		return []float64{}, nil
	}
	res, err := factorize(m)
	if err != nil {
		return nil, matrixErrorf(opRank, err)
	}

	return res.values, nil
}

// Rank returns the numerical rank of m.
//
// Inputs:
//   - m: any Matrix; zero-sized shapes are legal.
//   - opts: WithAbsTol / WithRelTol.
//
// Errors:
//   - ErrNilMatrix, ErrSVDFailed (wrapped with "Rank").
//
// Complexity:
//   - Time O(r·c·min(r,c)), Space O(r·c + c²).
func Rank(m Matrix, opts ...Option) (int, error) {
	o := gatherOptions(opts...)
	values, err := SingularValues(m)
	if err != nil {
		return 0, err
	}

	return rankOf(values, o.cutoff(values)), nil
}

// Nullspace returns a c×k matrix whose columns form an orthonormal basis of
// the right nullspace of m, with k = c − rank(m).
//
// Errors:
//   - ErrNilMatrix, ErrSVDFailed (wrapped with "Nullspace").
//
// AI-Hints:
//   - Basis entries below absTol are exact zeros, so IsZeroRow on the result
//     is a reliable "this coordinate is unconstrained by the nullspace" test.
func Nullspace(m Matrix, opts ...Option) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opNullspace, err)
	}
	o := gatherOptions(opts...)
	rows, cols := m.Rows(), m.Cols()

	// Degenerate shapes: nothing to factorise.
	if cols == 0 {
		return NewDense(0, 0)
	}
	if rows == 0 {
		id, _ := NewDense(cols, cols)
		for i := 0; i < cols; i++ {
			id.data[i*cols+i] = 1
		}

		return id, nil
	}

	res, err := factorize(m)
	if err != nil {
		return nil, matrixErrorf(opNullspace, err)
	}
	rank := rankOf(res.values, o.cutoff(res.values))
	k := cols - rank
	out, err := NewDense(cols, k)
	if err != nil {
		return nil, matrixErrorf(opNullspace, err)
	}

	var i, j int
	var v float64
	for j = 0; j < k; j++ {
		for i = 0; i < cols; i++ {
			v = res.v.At(i, rank+j)
			if math.Abs(v) < o.absTol {
				v = 0 // clamp numerical dust to an exact zero
			}
			out.data[i*k+j] = v
		}
		normalizeColumn(out, j)
	}

	return out, nil
}

// LeftNullspace returns an r×k basis of {y : mᵀ·y ≈ 0}, k = r − rank(m).
func LeftNullspace(m Matrix, opts ...Option) (*Dense, error) {
	t, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf(opLeftNullspace, err)
	}
	ns, err := Nullspace(t, opts...)
	if err != nil {
		return nil, matrixErrorf(opLeftNullspace, err)
	}

	return ns, nil
}

// normalizeColumn scales column j to unit Euclidean length and makes its
// first non-zero entry positive. All-zero columns are left untouched.
func normalizeColumn(d *Dense, j int) {
	var norm float64
	first := 0.0
	for i := 0; i < d.r; i++ {
		v := d.data[i*d.c+j]
		norm += v * v
		if first == 0 && v != 0 {
			first = v
		}
	}
	if norm == 0 {
		return
	}
	scale := 1 / math.Sqrt(norm)
	if first < 0 {
		scale = -scale
	}
	for i := 0; i < d.r; i++ {
		d.data[i*d.c+j] *= scale
	}
}
