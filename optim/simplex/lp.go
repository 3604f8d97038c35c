package simplex

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/stoich/optim"
)

// Numeric constants of the preprocessing stage.
const (
	// dependentRowTol: a row whose residual after projection onto the span
	// of earlier rows is below this fraction of its norm is dependent.
	dependentRowTol = 1e-9

	// feasibilityTol: absolute slack allowed on right-hand sides and bounds.
	feasibilityTol = 1e-9
)

// relaxation is the outcome of one continuous solve.
type relaxation struct {
	status optim.Status
	x      []float64 // original-variable values when optimal
	detail string
}

// solveRelaxation solves p as an LP under the bound overrides lo/hi,
// ignoring integrality.
//
// Implementation:
//   - Stage 1: translate to standard form (toStandardForm).
//   - Stage 2: drop zero and linearly dependent rows (an inconsistent
//     dependent row proves infeasibility), drop zero columns (a zero column
//     with negative cost makes any feasible problem unbounded).
//   - Stage 3: square systems are solved directly; others go to lp.Simplex.
//   - Stage 4: map gonum's sentinel errors onto optim statuses.
func (s *Solver) solveRelaxation(p *optim.Problem, lo, hi []float64) relaxation {
	sf, ok := toStandardForm(p, lo, hi, feasibilityTol)
	if !ok {
		return relaxation{status: optim.StatusInfeasible}
	}

	keptRows, ok := independentRows(sf.rows, len(sf.cost))
	if !ok {
		return relaxation{status: optim.StatusInfeasible}
	}

	// Columns that still appear in a kept row.
	used := make([]bool, len(sf.cost))
	for _, r := range keptRows {
		for _, k := range sf.rows[r].idx {
			used[k] = true
		}
	}
	var cols []int
	unboundedIfFeasible := false
	for k, u := range used {
		if u {
			cols = append(cols, k)
		} else if sf.cost[k] < -s.tol {
			unboundedIfFeasible = true
		}
	}

	y := make([]float64, len(sf.cost))
	if len(keptRows) > 0 {
		ySub, st, detail := s.solveReduced(sf, keptRows, cols)
		if st != optim.StatusOptimal {
			return relaxation{status: st, detail: detail}
		}
		for i, k := range cols {
			y[k] = ySub[i]
		}
	}
	if unboundedIfFeasible {
		return relaxation{status: optim.StatusUnbounded}
	}

	return relaxation{status: optim.StatusOptimal, x: sf.toOriginal(y, lo, hi)}
}

// solveReduced assembles the dense reduced system and solves it.
func (s *Solver) solveReduced(sf *standardForm, rows, cols []int) (y []float64, st optim.Status, detail string) {
	m, n := len(rows), len(cols)
	pos := make(map[int]int, n)
	for i, k := range cols {
		pos[k] = i
	}
	a := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	for i, r := range rows {
		row := sf.rows[r]
		sign := 1.0
		if row.rhs < 0 {
			sign = -1 // keep b ≥ 0
		}
		for t, k := range row.idx {
			a.Set(i, pos[k], sign*row.val[t])
		}
		b[i] = sign * row.rhs
	}
	c := make([]float64, n)
	for i, k := range cols {
		c[i] = sf.cost[k]
	}

	if m == n {
		return solveSquare(a, b)
	}

	// gonum panics on malformed input; keep the panic inside this boundary.
	defer func() {
		if r := recover(); r != nil {
			y, st, detail = nil, optim.StatusOther, fmt.Sprintf("lp: panic: %v", r)
		}
	}()
	_, x, err := lp.Simplex(c, a, b, s.tol, nil)
	switch {
	case err == nil:
		return x, optim.StatusOptimal, ""
	case errors.Is(err, lp.ErrInfeasible):
		return nil, optim.StatusInfeasible, ""
	case errors.Is(err, lp.ErrUnbounded):
		return nil, optim.StatusUnbounded, ""
	default:
		return nil, optim.StatusOther, err.Error()
	}
}

// solveSquare handles m == n: the unique point A⁻¹b is optimal iff it is
// non-negative within tolerance.
func solveSquare(a *mat.Dense, b []float64) ([]float64, optim.Status, string) {
	n := len(b)
	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(n, b)); err != nil {
		return nil, optim.StatusOther, err.Error()
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := x.AtVec(i)
		if v < -feasibilityTol*(1+math.Abs(b[i])) {
			return nil, optim.StatusInfeasible, ""
		}
		out[i] = math.Max(v, 0)
	}

	return out, optim.StatusOptimal, ""
}

// independentRows selects a maximal linearly independent subset of rows by
// modified Gram-Schmidt on the coefficient vectors, carrying the right-hand
// side along the same combinations. A dependent row whose projected
// right-hand side is non-zero makes the system inconsistent (ok=false).
func independentRows(rows []sparseRow, ncols int) (kept []int, ok bool) {
	type basisVec struct {
		v   []float64
		rhs float64
	}
	var basis []basisVec
	a := make([]float64, ncols)
	for r, row := range rows {
		for k := range a {
			a[k] = 0
		}
		var norm0 float64
		for t, k := range row.idx {
			a[k] = row.val[t]
			norm0 += row.val[t] * row.val[t]
		}
		norm0 = math.Sqrt(norm0)
		beta := row.rhs
		scale := 1 + math.Abs(row.rhs)
		if norm0 == 0 {
			if math.Abs(beta) > feasibilityTol*scale {
				return nil, false
			}
			continue
		}
		// Two passes of projection for numerical stability.
		for pass := 0; pass < 2; pass++ {
			for _, q := range basis {
				d := dot(a, q.v)
				if d == 0 {
					continue
				}
				for k := range a {
					a[k] -= d * q.v[k]
				}
				beta -= d * q.rhs
			}
		}
		norm := math.Sqrt(dot(a, a))
		if norm <= dependentRowTol*norm0 {
			if math.Abs(beta) > 1e3*feasibilityTol*scale*norm0 {
				return nil, false
			}
			continue
		}
		v := make([]float64, ncols)
		for k := range a {
			v[k] = a[k] / norm
		}
		basis = append(basis, basisVec{v: v, rhs: beta / norm})
		kept = append(kept, r)
	}

	return kept, true
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}
