// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single, canonical source of truth for common validation checks.
//   - Return plain sentinel errors wrapped with a validator tag so call sites
//     can wrap uniformly.
//
// Note:
//   - Each composite validator follows a fixed sequence (e.g. NotNil → Shape).

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil or a typed nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
func ValidateVecLen(x []float64, n int) error {
	if x == nil && n > 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateIDs ensures every identifier is non-empty and unique and returns
// the identifier→position index.
//
// Errors: ErrEmptyID, ErrDuplicateID (wrapped with the offending identifier).
// Complexity: O(n) time and space.
func ValidateIDs(ids []string) (map[string]int, error) {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, validatorErrorf("ValidateIDs", fmt.Errorf("position %d: %w", i, ErrEmptyID))
		}
		if _, dup := index[id]; dup {
			return nil, validatorErrorf("ValidateIDs", fmt.Errorf("%q: %w", id, ErrDuplicateID))
		}
		index[id] = i
	}

	return index, nil
}
