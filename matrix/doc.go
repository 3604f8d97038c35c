// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra layer for stoichiometric
// analysis: a row-major Dense type with safe accessors, a builder that turns
// metabolite/reaction incidence data into a signed stoichiometric matrix with
// bijective index maps, and a rank/nullspace engine on top of gonum's SVD.
//
// # Numeric policy
//
// Every Dense rejects NaN and ±Inf on Set. Rank and nullspace computations
// share one tolerance policy (see options.go): singular values below
// max(absTol, relTol·σ_max) count as zero, and nullspace entries below absTol
// are clamped to exact zeros. Downstream integer cuts and "all-zero row"
// checks rely on that clamp.
//
// # Shapes
//
// Zero-sized matrices are legal everywhere. A model without internal
// reactions yields an m×0 stoichiometry whose left nullspace is the m×m
// identity; a full-rank matrix yields a c×0 nullspace basis.
//
// # Errors
//
// All failures return sentinels from errors.go, wrapped with an operation
// tag ("Rank: ...", "BuildStoichiometry: ...") and matchable with errors.Is.
package matrix
