// SPDX-License-Identifier: MIT
//
// File: model.go
// Role: Model container, constructors, mutation and read-only getters.
// Determinism:
//   - Metabolites(), Reactions() and Compartments() return insertion order.
//   - ID-list helpers return ascending order.
// Concurrency:
//   - A single sync.RWMutex guards all catalogs; getters take the read lock.

package metabolic

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Model is a thread-safe constraint-based metabolic model.
type Model struct {
	mu sync.RWMutex

	id string

	compartments []Compartment
	compIndex    map[string]int

	metOrder []string
	mets     map[string]*Metabolite

	rxnOrder []string
	rxns     map[string]*Reaction

	// objective maps reaction ID to objective coefficient.
	objective map[string]float64

	tolerance float64

	// editMu serialises scoped edits; journal is non-nil while one runs.
	editMu  sync.Mutex
	journal []func()
}

// NewModel returns an empty model with the default tolerance.
func NewModel(id string) *Model {
	return &Model{
		id:        id,
		compIndex: make(map[string]int),
		mets:      make(map[string]*Metabolite),
		rxns:      make(map[string]*Reaction),
		objective: make(map[string]float64),
		tolerance: DefaultTolerance,
	}
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.id }

// Tolerance returns the numeric zero used for fluxes and objective values.
func (m *Model) Tolerance() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tolerance
}

// SetTolerance sets the model tolerance. Non-positive values are rejected.
func (m *Model) SetTolerance(tol float64) error {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return fmt.Errorf("metabolic: tolerance %g must be finite and > 0", tol)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.tolerance
	m.tolerance = tol
	m.record(func() { m.tolerance = old })

	return nil
}

// AddCompartment registers a compartment.
func (m *Model) AddCompartment(c Compartment) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.compIndex[c.ID]; ok {
		return fmt.Errorf("%w: compartment %q", ErrDuplicateID, c.ID)
	}
	m.compIndex[c.ID] = len(m.compartments)
	m.compartments = append(m.compartments, c)
	m.record(func() {
		m.compartments = m.compartments[:len(m.compartments)-1]
		delete(m.compIndex, c.ID)
	})

	return nil
}

// Compartments returns all compartments in insertion order.
func (m *Model) Compartments() []Compartment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Compartment(nil), m.compartments...)
}

// AddMetabolite adds met. Elements are parsed from Formula when absent;
// a metabolite in an unknown compartment registers that compartment.
func (m *Model) AddMetabolite(met Metabolite) error {
	if met.ID == "" {
		return ErrEmptyID
	}
	met = met.clone()
	if met.Elements == nil && met.Formula != "" {
		el, err := ParseFormula(met.Formula)
		if err != nil {
			return fmt.Errorf("metabolite %q: %w", met.ID, err)
		}
		met.Elements = el
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mets[met.ID]; ok {
		return fmt.Errorf("%w: metabolite %q", ErrDuplicateID, met.ID)
	}
	if met.Compartment != "" {
		if _, ok := m.compIndex[met.Compartment]; !ok {
			c := Compartment{ID: met.Compartment}
			m.compIndex[c.ID] = len(m.compartments)
			m.compartments = append(m.compartments, c)
			m.record(func() {
				m.compartments = m.compartments[:len(m.compartments)-1]
				delete(m.compIndex, c.ID)
			})
		}
	}
	m.mets[met.ID] = &met
	m.metOrder = append(m.metOrder, met.ID)
	m.record(func() {
		delete(m.mets, met.ID)
		m.metOrder = m.metOrder[:len(m.metOrder)-1]
	})

	return nil
}

// Metabolite returns a copy of the metabolite with the given ID.
func (m *Model) Metabolite(id string) (Metabolite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	met, ok := m.mets[id]
	if !ok {
		return Metabolite{}, fmt.Errorf("%w: %q", ErrMetaboliteNotFound, id)
	}

	return met.clone(), nil
}

// HasMetabolite reports whether id is a metabolite of the model.
func (m *Model) HasMetabolite(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.mets[id]

	return ok
}

// Metabolites returns copies of all metabolites in insertion order.
func (m *Model) Metabolites() []Metabolite {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Metabolite, 0, len(m.metOrder))
	for _, id := range m.metOrder {
		out = append(out, m.mets[id].clone())
	}

	return out
}

// MetaboliteIDs returns all metabolite IDs sorted ascending.
func (m *Model) MetaboliteIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedCopy(m.metOrder)
}

// AddReaction adds r. Every referenced metabolite must already exist.
func (m *Model) AddReaction(r Reaction) error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if !validBounds(r.Lower, r.Upper) {
		return fmt.Errorf("%w: reaction %q [%g, %g]", ErrInvalidBounds, r.ID, r.Lower, r.Upper)
	}
	if r.Boundary < NotBoundary || r.Boundary > Sink {
		return fmt.Errorf("%w: reaction %q: %d", ErrInvalidBoundary, r.ID, r.Boundary)
	}
	r = r.clone()
	for met, c := range r.Stoichiometry {
		if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %q in reaction %q: %g", ErrInvalidCoefficient, met, r.ID, c)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rxns[r.ID]; ok {
		return fmt.Errorf("%w: reaction %q", ErrDuplicateID, r.ID)
	}
	for met := range r.Stoichiometry {
		if _, ok := m.mets[met]; !ok {
			return fmt.Errorf("%w: %q in reaction %q", ErrMetaboliteNotFound, met, r.ID)
		}
	}
	m.rxns[r.ID] = &r
	m.rxnOrder = append(m.rxnOrder, r.ID)
	m.record(func() {
		delete(m.rxns, r.ID)
		m.rxnOrder = m.rxnOrder[:len(m.rxnOrder)-1]
	})

	return nil
}

// RemoveReaction deletes the reaction and its objective coefficient.
func (m *Model) RemoveReaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rxns[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}
	pos := indexOf(m.rxnOrder, id)
	coef, hadObj := m.objective[id]
	delete(m.rxns, id)
	delete(m.objective, id)
	m.rxnOrder = append(m.rxnOrder[:pos:pos], m.rxnOrder[pos+1:]...)
	m.record(func() {
		m.rxns[id] = r
		m.rxnOrder = append(m.rxnOrder[:pos], append([]string{id}, m.rxnOrder[pos:]...)...)
		if hadObj {
			m.objective[id] = coef
		}
	})

	return nil
}

// Reaction returns a copy of the reaction with the given ID.
func (m *Model) Reaction(id string) (Reaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rxns[id]
	if !ok {
		return Reaction{}, fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}

	return r.clone(), nil
}

// Reactions returns copies of all reactions in insertion order.
func (m *Model) Reactions() []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Reaction, 0, len(m.rxnOrder))
	for _, id := range m.rxnOrder {
		out = append(out, m.rxns[id].clone())
	}

	return out
}

// ReactionIDs returns all reaction IDs sorted ascending.
func (m *Model) ReactionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedCopy(m.rxnOrder)
}

// ReactionsOf returns the reactions in which met participates, in
// insertion order.
func (m *Model) ReactionsOf(met string) []Reaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Reaction
	for _, id := range m.rxnOrder {
		if _, ok := m.rxns[id].Stoichiometry[met]; ok {
			out = append(out, m.rxns[id].clone())
		}
	}

	return out
}

// SetBounds changes the flux bounds of a reaction.
func (m *Model) SetBounds(id string, lower, upper float64) error {
	if !validBounds(lower, upper) {
		return fmt.Errorf("%w: reaction %q [%g, %g]", ErrInvalidBounds, id, lower, upper)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rxns[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrReactionNotFound, id)
	}
	m.setBoundsLocked(r, lower, upper)

	return nil
}

func (m *Model) setBoundsLocked(r *Reaction, lower, upper float64) {
	oldLo, oldHi := r.Lower, r.Upper
	r.Lower, r.Upper = lower, upper
	m.record(func() { r.Lower, r.Upper = oldLo, oldHi })
}

// SetObjective replaces the objective with coefs (reaction ID -> coefficient).
func (m *Model) SetObjective(coefs map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range coefs {
		if _, ok := m.rxns[id]; !ok {
			return fmt.Errorf("%w: objective reaction %q", ErrReactionNotFound, id)
		}
	}
	old := m.objective
	m.objective = make(map[string]float64, len(coefs))
	for id, c := range coefs {
		if c != 0 {
			m.objective[id] = c
		}
	}
	m.record(func() { m.objective = old })

	return nil
}

// Objective returns a copy of the objective coefficients.
func (m *Model) Objective() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.objective))
	for k, v := range m.objective {
		out[k] = v
	}

	return out
}

// Clone returns an independent deep copy. The edit journal is not copied.
func (m *Model) Clone() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := NewModel(m.id)
	c.tolerance = m.tolerance
	c.compartments = append([]Compartment(nil), m.compartments...)
	for k, v := range m.compIndex {
		c.compIndex[k] = v
	}
	c.metOrder = append([]string(nil), m.metOrder...)
	for id, met := range m.mets {
		cp := met.clone()
		c.mets[id] = &cp
	}
	c.rxnOrder = append([]string(nil), m.rxnOrder...)
	for id, r := range m.rxns {
		cp := r.clone()
		c.rxns[id] = &cp
	}
	for k, v := range m.objective {
		c.objective[k] = v
	}

	return c
}

func sortedKeys(mp map[string]float64) []string {
	out := make([]string, 0, len(mp))
	for k := range mp {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)

	return out
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}

	return -1
}

func sortReactions(rxns []Reaction) {
	sort.Slice(rxns, func(i, j int) bool { return rxns[i].ID < rxns[j].ID })
}
