// Package stoich checks genome-scale metabolic models for stoichiometric
// errors: mass that appears from nothing, energy produced by closed loops,
// metabolites that can never be made or used.
//
// What is inside?
//
//	matrix/        dense stoichiometric matrix, SVD rank and (left) nullspace
//	metabolic/     thread-safe Model with scoped edits, boundary and biomass
//	               classification, YAML loading
//	optim/         solver-agnostic LP/MILP description and Solver interface
//	optim/simplex  gonum-backed LP solver with branch and bound for binaries
//	flux/          flux-balance and flux-variability analysis
//	consistency/   the checks themselves
//	condition/     numeric condition of the stoichiometric matrix
//	config/        viper-backed runtime configuration
//	cmd/stoich     command-line entry point
//
// Quick example:
//
//	m, _ := metabolic.LoadYAML("model.yaml")
//	c := consistency.New(simplex.New())
//	ok, _ := c.IsConsistent(ctx, m)
//	sets, _ := c.FindMinimalViolations(ctx, m)
//
// A model is stoichiometrically consistent when every internal metabolite
// can be given a strictly positive mass so that each internal reaction
// conserves mass. When it cannot, the minimal violating metabolite sets
// point at the reactions to fix.
package stoich
