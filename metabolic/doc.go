// Package metabolic provides a thread-safe, in-memory constraint-based
// metabolic model: metabolites in compartments, reactions with signed
// stoichiometry and flux bounds, and a linear objective over reactions.
//
// Besides plain storage the package answers the structural questions the
// consistency checks ask of a model:
//
//   - Boundary classification: Boundary, Exchanges, Demands, Sinks
//     (SBO annotation first, then compartment, reversibility and ID prefix).
//   - Biomass detection in four stages (Biomass) and the derived
//     Internal reaction set.
//   - Compartment lookup for canonical keys such as "c" and "e".
//   - Stoichiometric matrices over internal or all reactions.
//
// # Scoped edits
//
// Edit runs a function against the model and rolls every mutation back when
// the function returns, fails or panics:
//
//	err := model.Edit(func(m *metabolic.Model) error {
//		m.CloseBoundariesSensibly()
//		return m.AddReaction(dissipation)
//	})
//
// Getters return copies, so callers never alias internal state.
package metabolic
