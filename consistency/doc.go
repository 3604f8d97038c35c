// Package consistency implements the stoichiometric checks of a metabolic
// model quality report.
//
// What:
//   - IsConsistent: does a strictly positive molecular-mass vector exist
//     that conserves mass in every internal reaction (LP)?
//   - FindUnconserved: metabolites that cannot be given a positive mass (MILP).
//   - FindMinimalViolations: minimal metabolite sets whose net stoichiometry
//     breaks conservation (MILP over the left nullspace with integer cuts).
//   - DetectEnergyCycle: reactions forming an energy-generating cycle for a
//     carrier couple such as ATP/ADP.
//   - FindBalancedCycles, FindBlocked, FindNotProduced, FindNotConsumed,
//     FindUnboundedFlux: flux-based diagnostics.
//   - IsMassBalanced, IsChargeBalanced, FindOrphans, FindDeadEnds,
//     FindDisconnected: purely structural checks.
//
// How:
//
//	c := consistency.New(simplex.New(), consistency.WithLogger(log))
//	ok, err := c.IsConsistent(ctx, model)
//
// Every solver-backed check builds an optim.Problem and hands it to the
// injected optim.Solver; nothing here depends on a concrete backend.
// Checks that need temporary bounds or reactions run inside Model.Edit, so
// the caller's model is unchanged on return.
//
// Errors:
//   - ErrNilModel, ErrBadCoefficient, ErrUnknownCarrier,
//     ErrAmbiguousMetabolite, ErrNoNonBlockedReactions.
//   - *StatusError for solver statuses a check cannot interpret; it matches
//     ErrUnexpectedStatus under errors.Is.
package consistency
