// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All routines return these sentinels (optionally wrapped with an
// operation tag) and tests check them via errors.Is. No routine panics on
// user-triggered error conditions.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for easy grepping across logs.
// Context is attached at the outer boundary via matrixErrorf / validatorErrorf;
// callers still match with errors.Is.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are negative
	// (or non-positive for the public NewDense constructor).
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// Public indexers (At/Set) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a ragged row slice or a vector whose length differs from Cols().
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrEmptyID indicates an empty metabolite or reaction identifier.
	ErrEmptyID = errors.New("matrix: empty identifier")

	// ErrDuplicateID indicates that a row or column identifier occurs twice.
	ErrDuplicateID = errors.New("matrix: duplicate identifier")

	// ErrUnknownID indicates that a column references a row identifier that
	// is not part of the row list.
	ErrUnknownID = errors.New("matrix: unknown identifier")

	// ErrSVDFailed indicates that the singular value decomposition did not converge.
	ErrSVDFailed = errors.New("matrix: singular value decomposition failed")
)
