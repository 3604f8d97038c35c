// SPDX-License-Identifier: MIT
//
// File: boundary.go
// Role: Boundary-reaction classification, compartment lookup and the bound
//       presets used by the consistency checks.
// Determinism:
//   - Every list is sorted by reaction ID.

package metabolic

import (
	"fmt"
	"sort"
	"strings"
)

// compartmentShortlist maps canonical compartment keys to known names.
var compartmentShortlist = map[string][]string{
	"c": {
		"cytoplasm",
		"cytosol",
		"default",
		"in",
		"intra cellular",
		"intracellular",
		"intracellular region",
		"intracellular space",
	},
	"e": {
		"extracellular",
		"extraorganism",
		"out",
		"extracellular space",
		"extra organism",
		"extra cellular",
		"extra-organism",
	},
	"p": {"periplasm", "periplasmic space"},
	"m": {"mitochondrion", "mitochondria"},
}

// Reaction ID prefixes that rule a boundary type out.
var boundaryExcludes = map[BoundaryType][]string{
	Exchange: {"DM_", "SK_"},
	Demand:   {"SK_", "EX_"},
	Sink:     {"DM_", "EX_"},
}

var boundarySBO = map[BoundaryType]string{
	Exchange: SBOExchange,
	Demand:   SBODemand,
	Sink:     SBOSink,
}

// FindCompartment resolves a canonical compartment key ("c", "e", "p", "m")
// to the model's own compartment ID.
//
// Implementation:
//   - Stage 1: a compartment whose ID equals key wins.
//   - Stage 2: a compartment whose lower-cased name is on the shortlist.
//   - Stage 3: for "c" only, the compartment holding the most metabolites,
//     provided it is unique.
func (m *Model) FindCompartment(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.findCompartmentLocked(key)
}

func (m *Model) findCompartmentLocked(key string) (string, error) {
	names, known := compartmentShortlist[key]
	if !known {
		return "", fmt.Errorf("%w: unknown key %q", ErrCompartmentNotFound, key)
	}
	if len(m.compartments) == 0 {
		return "", fmt.Errorf("%w: model has no compartments", ErrCompartmentNotFound)
	}
	if _, ok := m.compIndex[key]; ok {
		return key, nil
	}
	for _, name := range names {
		for _, c := range m.compartments {
			if strings.ToLower(c.Name) == name {
				return c.ID, nil
			}
		}
	}
	if key != "c" {
		return "", fmt.Errorf("%w: %q", ErrCompartmentNotFound, key)
	}

	counts := make(map[string]int, len(m.compartments))
	for _, met := range m.mets {
		counts[met.Compartment]++
	}
	best, second := "", -1
	bestN := -1
	for _, c := range m.compartments {
		n := counts[c.ID]
		switch {
		case n > bestN:
			second, best, bestN = bestN, c.ID, n
		case n > second:
			second = n
		}
	}
	if bestN == second {
		return "", fmt.Errorf("%w: tie for the largest compartment", ErrCompartmentNotFound)
	}

	return best, nil
}

// externalLocked returns the extracellular compartment: the "e" lookup, or
// failing that the compartment most common among boundary metabolites.
func (m *Model) externalLocked() string {
	if id, err := m.findCompartmentLocked("e"); err == nil {
		return id
	}
	counts := make(map[string]int)
	for _, id := range m.rxnOrder {
		r := m.rxns[id]
		if !r.IsBoundary() {
			continue
		}
		for met := range r.Stoichiometry {
			counts[m.mets[met].Compartment]++
		}
	}
	best, bestN := "", 0
	for _, c := range m.compartments {
		if counts[c.ID] > bestN {
			best, bestN = c.ID, counts[c.ID]
		}
	}

	return best
}

// BoundaryTypeOf classifies reaction id.
func (m *Model) BoundaryTypeOf(id string) (BoundaryType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rxns[id]
	if !ok {
		return NotBoundary, fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}

	return m.boundaryTypeLocked(r, m.externalLocked()), nil
}

// boundaryTypeLocked applies an explicit type first, then the SBO
// annotation, then compartment, reversibility and ID-prefix rules.
func (m *Model) boundaryTypeLocked(r *Reaction, external string) BoundaryType {
	if r.Boundary != NotBoundary {
		return r.Boundary
	}
	if !r.IsBoundary() {
		return NotBoundary
	}
	for _, t := range []BoundaryType{Exchange, Demand, Sink} {
		if strings.EqualFold(r.SBO, boundarySBO[t]) {
			return t
		}
	}
	extracellular := false
	for met := range r.Stoichiometry {
		if m.mets[met].Compartment == external && external != "" {
			extracellular = true
		}
	}
	for _, t := range []BoundaryType{Exchange, Demand, Sink} {
		if excluded(r.ID, t) {
			continue
		}
		switch {
		case t == Exchange && extracellular:
			return t
		case t == Demand && !extracellular && !r.Reversible():
			return t
		case t == Sink && !extracellular && r.Reversible():
			return t
		}
	}

	return NotBoundary
}

func excluded(id string, t BoundaryType) bool {
	for _, p := range boundaryExcludes[t] {
		if strings.Contains(id, p) {
			return true
		}
	}

	return false
}

// Boundary returns every boundary reaction, sorted by ID.
func (m *Model) Boundary() []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filterLocked(func(r *Reaction) bool { return r.IsBoundary() })
}

// Exchanges returns the exchange reactions, sorted by ID.
func (m *Model) Exchanges() []Reaction { return m.ofType(Exchange) }

// Demands returns the demand reactions, sorted by ID.
func (m *Model) Demands() []Reaction { return m.ofType(Demand) }

// Sinks returns the sink reactions, sorted by ID.
func (m *Model) Sinks() []Reaction { return m.ofType(Sink) }

func (m *Model) ofType(t BoundaryType) []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ext := m.externalLocked()

	return m.filterLocked(func(r *Reaction) bool { return m.boundaryTypeLocked(r, ext) == t })
}

// Internal returns the reactions that are neither boundary nor biomass
// reactions, sorted by ID.
func (m *Model) Internal() []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bio := make(map[string]bool)
	for _, id := range m.biomassLocked() {
		bio[id] = true
	}

	return m.filterLocked(func(r *Reaction) bool { return !r.IsBoundary() && !bio[r.ID] })
}

// InternalMetabolites returns the IDs of metabolites touched by Internal
// reactions, sorted.
func (m *Model) InternalMetabolites() []string {
	seen := make(map[string]float64)
	for _, r := range m.Internal() {
		for met := range r.Stoichiometry {
			seen[met] = 1
		}
	}

	return sortedKeys(seen)
}

func (m *Model) filterLocked(keep func(*Reaction) bool) []Reaction {
	var out []Reaction
	for _, id := range m.rxnOrder {
		if r := m.rxns[id]; keep(r) {
			out = append(out, r.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// CloseBoundariesSensibly clamps every reversible reaction to [-1, 1],
// every other reaction to [0, 1], then closes all boundary reactions.
func (m *Model) CloseBoundariesSensibly() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.rxnOrder {
		r := m.rxns[id]
		if r.Reversible() {
			m.setBoundsLocked(r, -1, 1)
		} else {
			m.setBoundsLocked(r, 0, 1)
		}
	}
	for _, id := range m.rxnOrder {
		if r := m.rxns[id]; r.IsBoundary() {
			m.setBoundsLocked(r, 0, 0)
		}
	}
}

// OpenExchanges sets every exchange reaction to the default bounds.
func (m *Model) OpenExchanges() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ext := m.externalLocked()
	for _, id := range m.rxnOrder {
		if r := m.rxns[id]; m.boundaryTypeLocked(r, ext) == Exchange {
			m.setBoundsLocked(r, DefaultLowerBound, DefaultUpperBound)
		}
	}
}

// OpenBoundaries sets every boundary reaction to the default bounds.
func (m *Model) OpenBoundaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.rxnOrder {
		if r := m.rxns[id]; r.IsBoundary() {
			m.setBoundsLocked(r, DefaultLowerBound, DefaultUpperBound)
		}
	}
}

// MedianBounds returns the medians of the non-zero lower and upper bounds.
// A side without non-zero bounds falls back to DefaultLowerBound or
// DefaultUpperBound and ok for that side is false.
func (m *Model) MedianBounds() (lower, upper float64, lowerOK, upperOK bool) {
	m.mu.RLock()
	var los, his []float64
	for _, id := range m.rxnOrder {
		r := m.rxns[id]
		if r.Lower != 0 {
			los = append(los, r.Lower)
		}
		if r.Upper != 0 {
			his = append(his, r.Upper)
		}
	}
	m.mu.RUnlock()

	lower, lowerOK = median(los)
	if !lowerOK {
		lower = DefaultLowerBound
	}
	upper, upperOK = median(his)
	if !upperOK {
		upper = DefaultUpperBound
	}

	return lower, upper, lowerOK, upperOK
}

func median(v []float64) (float64, bool) {
	if len(v) == 0 {
		return 0, false
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2], true
	}

	return (v[n/2-1] + v[n/2]) / 2, true
}
