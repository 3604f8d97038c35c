// Package flux formulates flux-balance problems over a metabolic.Model and
// runs the two analyses the consistency checks rely on: Optimize (maximise
// the model objective) and Variability (per-reaction flux ranges, FVA).
//
// The formulation is solver-agnostic: NewProblem returns an optim.Problem
// whose variables are named by reaction ID and whose equality rows are named
// by metabolite ID, so callers can couple extra variables into a balance row
// with SetCoefficient.
package flux
