// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of
// rank and nullspace computations. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Notes:
//   - The effective singular-value cut-off is max(absTol, relTol*sigma_max).
//   - absTol doubles as the clamp threshold for nullspace entries: any basis
//     entry with |v| < absTol is written as an exact zero before the column
//     is renormalised.
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultAbsTol is the absolute singular-value tolerance. Values below it
	// are treated as exactly zero.
	DefaultAbsTol = 1e-13

	// DefaultRelTol is the relative tolerance, scaled by the largest singular value.
	DefaultRelTol = 0.0

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicAbsTolInvalid = "matrix: WithAbsTol: tolerance must be finite, non-negative"
	panicRelTolInvalid = "matrix: WithRelTol: tolerance must be finite, non-negative"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	absTol float64 // >= 0; DefaultAbsTol
	relTol float64 // >= 0; DefaultRelTol
}

// WithAbsTol sets the absolute tolerance used by Rank and Nullspace.
//
// Implementation:
//   - Stage 1: validate tol is finite and ≥ 0.
//   - Stage 2: return a setter that writes tol into Options.
//
// Errors:
//   - Panics with a stable message when tol is invalid.
//
// AI-Hints:
//   - Keep it very small but larger than zero (1e-13 for stoichiometric data).
func WithAbsTol(tol float64) Option {
	if isNonFinite(tol) || tol < 0 {
		panic(panicAbsTolInvalid)
	}

	return func(o *Options) { o.absTol = tol }
}

// WithRelTol sets the relative tolerance (scaled by the largest singular value).
func WithRelTol(tol float64) Option {
	if isNonFinite(tol) || tol < 0 {
		panic(panicRelTolInvalid)
	}

	return func(o *Options) { o.relTol = tol }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{absTol: DefaultAbsTol, relTol: DefaultRelTol}
}

// gatherOptions applies opts over defaults in order; later options win.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
