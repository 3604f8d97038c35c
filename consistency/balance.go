package consistency

import (
	"math"
	"sort"

	"github.com/katalvlaran/stoich/metabolic"
)

// IsMassBalanced reports whether every element sums to zero over r.
// A metabolite without element data makes the reaction unbalanced, as does
// a metabolite unknown to m.
func IsMassBalanced(m *metabolic.Model, r *metabolic.Reaction) bool {
	totals := make(map[string]float64)
	for id, coef := range r.Stoichiometry {
		met, err := m.Metabolite(id)
		if err != nil || len(met.Elements) == 0 {
			return false
		}
		for el, n := range met.Elements {
			totals[el] += coef * n
		}
	}
	for _, v := range totals {
		if math.Abs(v) > ElementTolerance {
			return false
		}
	}

	return true
}

// IsChargeBalanced reports whether the charges over r sum to zero.
// A metabolite without a charge makes the reaction unbalanced.
func IsChargeBalanced(m *metabolic.Model, r *metabolic.Reaction) bool {
	var total float64
	for id, coef := range r.Stoichiometry {
		met, err := m.Metabolite(id)
		if err != nil || met.Charge == nil {
			return false
		}
		total += coef * float64(*met.Charge)
	}

	return math.Abs(total) <= ElementTolerance
}

// FindMassUnbalanced returns the IDs of the internal reactions of m that
// are not mass balanced, sorted.
func FindMassUnbalanced(m *metabolic.Model) []string {
	return filterInternal(m, IsMassBalanced)
}

// FindChargeUnbalanced returns the IDs of the internal reactions of m that
// are not charge balanced, sorted.
func FindChargeUnbalanced(m *metabolic.Model) []string {
	return filterInternal(m, IsChargeBalanced)
}

func filterInternal(m *metabolic.Model, balanced func(*metabolic.Model, *metabolic.Reaction) bool) []string {
	out := []string{}
	for _, r := range m.Internal() {
		if !balanced(m, &r) {
			out = append(out, r.ID)
		}
	}
	sort.Strings(out)

	return out
}
