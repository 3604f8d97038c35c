package metabolic

import (
	"github.com/katalvlaran/stoich/matrix"
)

// InternalStoichiometry builds the matrix over Internal reactions and the
// metabolites they touch, both sorted by ID.
func (m *Model) InternalStoichiometry() (*matrix.Stoichiometry, error) {
	return build(m.InternalMetabolites(), m.Internal())
}

// FullStoichiometry builds the matrix over every metabolite and reaction,
// both sorted by ID.
func (m *Model) FullStoichiometry() (*matrix.Stoichiometry, error) {
	m.mu.RLock()
	mets := sortedCopy(m.metOrder)
	m.mu.RUnlock()

	rxns := m.Reactions()
	sortReactions(rxns)

	return build(mets, rxns)
}

func build(mets []string, rxns []Reaction) (*matrix.Stoichiometry, error) {
	cols := make([]matrix.Column, len(rxns))
	for j, r := range rxns {
		cols[j] = matrix.Column{ID: r.ID, Coefficients: r.Stoichiometry}
	}

	return matrix.BuildStoichiometry(mets, cols)
}
