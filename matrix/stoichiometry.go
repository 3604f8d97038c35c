// SPDX-License-Identifier: MIT
// Package matrix: stoichiometric matrix builder.
//
// Purpose:
//   - Turn (metabolite, reaction) incidence data into a dense signed matrix
//     with rows = metabolites and columns = reactions, plus bijective
//     identifier→index maps in both directions.
//
// Contract:
//   - S[i][j] is the coefficient of metabolite i in reaction j, 0 if absent.
//   - Row and column order is exactly the order of the input slices; callers
//     sort identifiers when they need a canonical layout.
//
// Errors:
//   - ErrEmptyID, ErrDuplicateID for bad row/column identifiers.
//   - ErrUnknownID when a column mentions a metabolite outside the row list.
//   - ErrNaNInf for non-finite coefficients.

package matrix

import "fmt"

// Column is one reaction: its identifier and metabolite→coefficient map.
type Column struct {
	ID           string
	Coefficients map[string]float64
}

// Stoichiometry is the built matrix with its index maps.
type Stoichiometry struct {
	Mat         *Dense         // rows = Metabolites, cols = Reactions
	Metabolites []string       // row identifiers in row order
	Reactions   []string       // column identifiers in column order
	MetIndex    map[string]int // metabolite ID → row index
	RxnIndex    map[string]int // reaction ID → column index
}

// BuildStoichiometry assembles the signed stoichiometric matrix.
//
// Implementation:
//   - Stage 1: validate and index row identifiers (metabolites).
//   - Stage 2: validate and index column identifiers (reactions).
//   - Stage 3: allocate |mets|×|rxns| Dense and scatter coefficients.
//
// Complexity:
//   - Time O(m·n + nnz), Space O(m·n).
func BuildStoichiometry(metabolites []string, reactions []Column) (*Stoichiometry, error) {
	metIndex, err := ValidateIDs(metabolites)
	if err != nil {
		return nil, matrixErrorf(opBuild, fmt.Errorf("metabolites: %w", err))
	}
	rxnIDs := make([]string, len(reactions))
	for j := range reactions {
		rxnIDs[j] = reactions[j].ID
	}
	rxnIndex, err := ValidateIDs(rxnIDs)
	if err != nil {
		return nil, matrixErrorf(opBuild, fmt.Errorf("reactions: %w", err))
	}

	s, err := NewDense(len(metabolites), len(reactions))
	if err != nil {
		return nil, matrixErrorf(opBuild, err)
	}
	for j, col := range reactions {
		for met, coef := range col.Coefficients {
			i, ok := metIndex[met]
			if !ok {
				return nil, matrixErrorf(opBuild, fmt.Errorf("reaction %q references %q: %w", col.ID, met, ErrUnknownID))
			}
			if err = s.Set(i, j, coef); err != nil {
				return nil, matrixErrorf(opBuild, fmt.Errorf("reaction %q: %w", col.ID, err))
			}
		}
	}

	mets := make([]string, len(metabolites))
	copy(mets, metabolites)

	return &Stoichiometry{
		Mat:         s,
		Metabolites: mets,
		Reactions:   rxnIDs,
		MetIndex:    metIndex,
		RxnIndex:    rxnIndex,
	}, nil
}

// Coefficient returns S[met][rxn]; unknown identifiers yield ErrUnknownID.
func (s *Stoichiometry) Coefficient(met, rxn string) (float64, error) {
	i, ok := s.MetIndex[met]
	if !ok {
		return 0, fmt.Errorf("metabolite %q: %w", met, ErrUnknownID)
	}
	j, ok := s.RxnIndex[rxn]
	if !ok {
		return 0, fmt.Errorf("reaction %q: %w", rxn, ErrUnknownID)
	}

	return s.Mat.At(i, j)
}
