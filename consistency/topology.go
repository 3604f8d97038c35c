package consistency

import (
	"sort"

	"github.com/katalvlaran/stoich/metabolic"
)

// FindOrphans returns the metabolites that are only ever consumed, sorted.
// A metabolite touched by an exchange reaction is never an orphan.
func FindOrphans(model *metabolic.Model) []string {
	return findOneSided(model, isOnlySubstrate)
}

// FindDeadEnds returns the metabolites that are only ever produced, sorted.
// A metabolite touched by an exchange reaction is never a dead end.
func FindDeadEnds(model *metabolic.Model) []string {
	return findOneSided(model, isOnlyProduct)
}

// FindDisconnected returns the metabolites that take part in no reaction, sorted.
func FindDisconnected(model *metabolic.Model) []string {
	used := make(map[string]bool)
	for _, r := range model.Reactions() {
		for met := range r.Stoichiometry {
			used[met] = true
		}
	}
	out := []string{}
	for _, id := range model.MetaboliteIDs() {
		if !used[id] {
			out = append(out, id)
		}
	}

	return out
}

func findOneSided(model *metabolic.Model, oneSided func(metabolic.Reaction, string) bool) []string {
	exchange := make(map[string]bool)
	for _, r := range model.Exchanges() {
		exchange[r.ID] = true
	}
	byMet := make(map[string][]metabolic.Reaction)
	for _, r := range model.Reactions() {
		for met := range r.Stoichiometry {
			byMet[met] = append(byMet[met], r)
		}
	}

	out := []string{}
	for met, rxns := range byMet {
		keep := true
		for _, r := range rxns {
			if exchange[r.ID] || !oneSided(r, met) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, met)
		}
	}
	sort.Strings(out)

	return out
}

// isOnlySubstrate reports whether r can only consume met.
func isOnlySubstrate(r metabolic.Reaction, met string) bool {
	if r.Reversible() {
		return false
	}
	if r.Stoichiometry[met] < 0 {
		return r.Lower >= 0 && r.Upper > 0
	}

	return r.Lower < 0 && r.Upper <= 0
}

// isOnlyProduct reports whether r can only produce met.
func isOnlyProduct(r metabolic.Reaction, met string) bool {
	if r.Reversible() {
		return false
	}
	if r.Stoichiometry[met] > 0 {
		return r.Lower >= 0 && r.Upper > 0
	}

	return r.Lower < 0 && r.Upper <= 0
}
