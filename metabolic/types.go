// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Metabolite, Reaction and Compartment value types plus sentinel errors.
// Concurrency:
//   - Values returned by Model getters are copies; mutating them never
//     touches the model.

package metabolic

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for model construction and lookup.
var (
	// ErrEmptyID indicates a metabolite, reaction or compartment without ID.
	ErrEmptyID = errors.New("metabolic: empty identifier")

	// ErrDuplicateID indicates an identifier already present in the model.
	ErrDuplicateID = errors.New("metabolic: duplicate identifier")

	// ErrMetaboliteNotFound indicates a lookup of an unknown metabolite.
	ErrMetaboliteNotFound = errors.New("metabolic: metabolite not found")

	// ErrReactionNotFound indicates a lookup of an unknown reaction.
	ErrReactionNotFound = errors.New("metabolic: reaction not found")

	// ErrCompartmentNotFound indicates a compartment that cannot be identified.
	ErrCompartmentNotFound = errors.New("metabolic: compartment not found")

	// ErrInvalidBounds indicates NaN bounds or lower > upper.
	ErrInvalidBounds = errors.New("metabolic: invalid flux bounds")

	// ErrInvalidCoefficient indicates a zero, NaN or infinite stoichiometric coefficient.
	ErrInvalidCoefficient = errors.New("metabolic: invalid stoichiometric coefficient")

	// ErrInvalidFormula indicates a chemical formula that cannot be parsed.
	ErrInvalidFormula = errors.New("metabolic: invalid chemical formula")

	// ErrInvalidBoundary indicates an unknown boundary type.
	ErrInvalidBoundary = errors.New("metabolic: invalid boundary type")
)

// SBO terms used for classification.
const (
	SBOExchange          = "SBO:0000627"
	SBODemand            = "SBO:0000628"
	SBOSink              = "SBO:0000632"
	SBOBiomassProduction = "SBO:0000629"
	SBOBiomass           = "SBO:0000649"
)

// Default flux bounds.
const (
	DefaultLowerBound = -1000.0
	DefaultUpperBound = 1000.0

	// DefaultTolerance is the model's numeric zero for fluxes and objectives.
	DefaultTolerance = 1e-7
)

// Compartment is a named region of the cell.
type Compartment struct {
	ID   string
	Name string
}

// Metabolite is a chemical species located in one compartment.
type Metabolite struct {
	// ID is the unique identifier within the model.
	ID string

	Name        string
	Compartment string

	// Formula is the Hill-style chemical formula, e.g. "C6H12O6". May be empty.
	Formula string

	// Elements maps element symbol to count. Derived from Formula when nil.
	Elements map[string]float64

	// Charge is nil when unknown.
	Charge *int

	SBO string
}

// HasFormula reports whether elemental composition is known.
func (m Metabolite) HasFormula() bool { return len(m.Elements) > 0 }

// clone returns a deep copy.
func (m Metabolite) clone() Metabolite {
	out := m
	if m.Elements != nil {
		out.Elements = make(map[string]float64, len(m.Elements))
		for k, v := range m.Elements {
			out.Elements[k] = v
		}
	}
	if m.Charge != nil {
		c := *m.Charge
		out.Charge = &c
	}

	return out
}

// BoundaryType classifies single-metabolite reactions.
type BoundaryType int

const (
	// NotBoundary is an ordinary internal reaction.
	NotBoundary BoundaryType = iota
	// Exchange exchanges an extracellular metabolite with the environment.
	Exchange
	// Demand irreversibly drains an intracellular metabolite.
	Demand
	// Sink reversibly supplies or drains an intracellular metabolite.
	Sink
)

// ParseBoundaryType maps "exchange", "demand", "sink" and "internal" (or "")
// to a BoundaryType.
func ParseBoundaryType(s string) (BoundaryType, error) {
	switch strings.ToLower(s) {
	case "", "internal":
		return NotBoundary, nil
	case "exchange":
		return Exchange, nil
	case "demand":
		return Demand, nil
	case "sink":
		return Sink, nil
	default:
		return NotBoundary, fmt.Errorf("%w: %q", ErrInvalidBoundary, s)
	}
}

func (b BoundaryType) String() string {
	switch b {
	case Exchange:
		return "exchange"
	case Demand:
		return "demand"
	case Sink:
		return "sink"
	default:
		return "internal"
	}
}

// Reaction is a stoichiometric transformation with flux bounds.
// Negative coefficients are substrates, positive ones products.
type Reaction struct {
	ID            string
	Name          string
	Stoichiometry map[string]float64
	Lower, Upper  float64
	SBO           string
	// Boundary pins the classification; NotBoundary leaves it to SBO and
	// structural rules.
	Boundary BoundaryType
}

// Reversible reports whether flux may run in both directions.
func (r Reaction) Reversible() bool { return r.Lower < 0 && r.Upper > 0 }

// IsBoundary reports whether r carries an explicit boundary type or touches
// exactly one metabolite with a one-sided stoichiometry (A -> , -> A, A <=> ).
func (r Reaction) IsBoundary() bool {
	return r.Boundary != NotBoundary || len(r.Stoichiometry) == 1
}

// Metabolites returns the IDs of the participating metabolites, sorted.
func (r Reaction) Metabolites() []string {
	return sortedKeys(r.Stoichiometry)
}

// Coefficient returns the stoichiometric coefficient of met, 0 if absent.
func (r Reaction) Coefficient(met string) float64 { return r.Stoichiometry[met] }

func (r Reaction) clone() Reaction {
	out := r
	out.Stoichiometry = make(map[string]float64, len(r.Stoichiometry))
	for k, v := range r.Stoichiometry {
		out.Stoichiometry[k] = v
	}

	return out
}

func validBounds(lo, hi float64) bool {
	return !math.IsNaN(lo) && !math.IsNaN(hi) && lo <= hi
}
