package simplex

import (
	"math"
	"sort"

	"github.com/katalvlaran/stoich/optim"
)

// sparseRow is one equality row Σ val·y[idx] = rhs of the standard form.
type sparseRow struct {
	idx []int
	val []float64
	rhs float64
}

// standardForm is the translation of an optim.Problem into
//
//	minimize cᵀy  subject to  A·y = b,  y ≥ 0
//
// together with the affine map back to the original variables:
//
//	x_j = offset_j + Σ_k sign_k·y_k  over the columns k owned by j.
type standardForm struct {
	nOrig   int
	offset  []float64
	colOrig []int     // owning original variable, -1 for slacks
	colSign []float64 // ±1
	cost    []float64
	rows    []sparseRow
}

// newColumn appends a structural or slack column and returns its index.
func (sf *standardForm) newColumn(orig int, sign float64) int {
	sf.colOrig = append(sf.colOrig, orig)
	sf.colSign = append(sf.colSign, sign)
	sf.cost = append(sf.cost, 0)

	return len(sf.colOrig) - 1
}

// toStandardForm translates p under the bound overrides lo/hi.
//
// Implementation:
//   - Stage 1: per variable, shift finite lower bounds to zero, mirror
//     variables bounded only from above, split free variables into x⁺ − x⁻,
//     and emit y + s = u − l rows for finite upper bounds.
//   - Stage 2: per constraint, substitute the affine maps, move constants to
//     the right-hand side and add slack columns for inequality sides.
//     Ranged constraints become two rows.
//   - Stage 3: objective coefficients in minimisation sense.
//
// Returns ok=false when a bound pair or an empty constraint is trivially
// infeasible.
func toStandardForm(p *optim.Problem, lo, hi []float64, feasTol float64) (*standardForm, bool) {
	n := len(lo)
	sf := &standardForm{nOrig: n, offset: make([]float64, n)}
	owned := make([][]int, n)

	// Stage 1: variables.
	var boundRows []sparseRow
	for j := 0; j < n; j++ {
		l, u := lo[j], hi[j]
		if l > u+feasTol {
			return nil, false
		}
		switch {
		case !math.IsInf(l, -1):
			sf.offset[j] = l
			if u-l <= feasTol {
				continue // fixed at l
			}
			k := sf.newColumn(j, 1)
			owned[j] = append(owned[j], k)
			if !math.IsInf(u, 1) {
				s := sf.newColumn(-1, 1)
				boundRows = append(boundRows, sparseRow{idx: []int{k, s}, val: []float64{1, 1}, rhs: u - l})
			}
		case !math.IsInf(u, 1):
			sf.offset[j] = u // x = u − y
			owned[j] = append(owned[j], sf.newColumn(j, -1))
		default:
			owned[j] = append(owned[j], sf.newColumn(j, 1), sf.newColumn(j, -1))
		}
	}

	// Stage 2: constraints.
	for _, c := range p.Constraints() {
		acc := make(map[int]float64)
		var shift float64
		for _, t := range c.Expr {
			shift += t.Coef * sf.offset[t.Var]
			for _, k := range owned[t.Var] {
				acc[k] += t.Coef * sf.colSign[k]
			}
		}
		idx, val := flatten(acc)
		if len(idx) == 0 {
			// Constant row: must hold as written.
			if shift < c.Lower-feasTol || shift > c.Upper+feasTol {
				return nil, false
			}
			continue
		}
		switch {
		case c.Lower == c.Upper:
			sf.rows = append(sf.rows, sparseRow{idx: idx, val: val, rhs: c.Upper - shift})
		default:
			if !math.IsInf(c.Upper, 1) {
				s := sf.newColumn(-1, 1)
				sf.rows = append(sf.rows, sparseRow{
					idx: append(append([]int(nil), idx...), s),
					val: append(append([]float64(nil), val...), 1),
					rhs: c.Upper - shift,
				})
			}
			if !math.IsInf(c.Lower, -1) {
				s := sf.newColumn(-1, 1)
				sf.rows = append(sf.rows, sparseRow{
					idx: append(append([]int(nil), idx...), s),
					val: append(append([]float64(nil), val...), -1),
					rhs: c.Lower - shift,
				})
			}
		}
	}
	sf.rows = append(sf.rows, boundRows...)

	// Stage 3: objective (minimisation sense).
	obj := p.Objective()
	sense := 1.0
	if obj.Direction == optim.Maximize {
		sense = -1
	}
	for _, t := range obj.Expr {
		for _, k := range owned[t.Var] {
			sf.cost[k] += sense * t.Coef * sf.colSign[k]
		}
	}

	return sf, true
}

// toOriginal maps a standard-form point back to the original variables and
// clamps tiny bound violations left by floating-point arithmetic.
func (sf *standardForm) toOriginal(y []float64, lo, hi []float64) []float64 {
	x := make([]float64, sf.nOrig)
	copy(x, sf.offset)
	for k, v := range y {
		if j := sf.colOrig[k]; j >= 0 {
			x[j] += sf.colSign[k] * v
		}
	}
	for j := range x {
		x[j] = math.Max(lo[j], math.Min(hi[j], x[j]))
	}

	return x
}

// flatten turns an accumulator into sorted parallel slices without zeros.
func flatten(acc map[int]float64) ([]int, []float64) {
	idx := make([]int, 0, len(acc))
	for k, v := range acc {
		if v != 0 {
			idx = append(idx, k)
		}
	}
	sort.Ints(idx)
	val := make([]float64, len(idx))
	for i, k := range idx {
		val[i] = acc[k]
	}

	return idx, val
}
