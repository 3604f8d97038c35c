package metabolic

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML representation of a Model.
//
//	id: toy
//	compartments: [{id: c, name: cytosol}]
//	metabolites:
//	  - {id: atp_c, compartment: c, formula: C10H12N5O13P3, charge: -4}
//	reactions:
//	  - id: R1
//	    reversible: true
//	    stoichiometry: {a_c: -1, b_c: 1}
//	objective: {R1: 1}
type Document struct {
	ID           string             `yaml:"id"`
	Tolerance    float64            `yaml:"tolerance,omitempty"`
	Compartments []CompartmentDoc   `yaml:"compartments,omitempty"`
	Metabolites  []MetaboliteDoc    `yaml:"metabolites"`
	Reactions    []ReactionDoc      `yaml:"reactions"`
	Objective    map[string]float64 `yaml:"objective,omitempty"`
}

// CompartmentDoc is one compartment entry.
type CompartmentDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// MetaboliteDoc is one metabolite entry.
type MetaboliteDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Compartment string `yaml:"compartment,omitempty"`
	Formula     string `yaml:"formula,omitempty"`
	Charge      *int   `yaml:"charge,omitempty"`
	SBO         string `yaml:"sbo,omitempty"`
}

// ReactionDoc is one reaction entry. Missing bounds default to
// [0, 1000], or [-1000, 1000] when Reversible is set.
type ReactionDoc struct {
	ID            string             `yaml:"id"`
	Name          string             `yaml:"name,omitempty"`
	Stoichiometry map[string]float64 `yaml:"stoichiometry"`
	Lower         *float64           `yaml:"lower,omitempty"`
	Upper         *float64           `yaml:"upper,omitempty"`
	Reversible    bool               `yaml:"reversible,omitempty"`
	SBO           string             `yaml:"sbo,omitempty"`
	Boundary      string             `yaml:"boundary,omitempty"`
}

// LoadYAML reads a model from a YAML file.
func LoadYAML(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metabolic: read %s: %w", path, err)
	}

	return DecodeYAML(bytes.NewReader(raw))
}

// DecodeYAML reads a model document from r. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("metabolic: decode yaml: %w", err)
	}

	return doc.Build()
}

// Build converts the document into a Model.
func (d Document) Build() (*Model, error) {
	m := NewModel(d.ID)
	if d.Tolerance != 0 {
		if err := m.SetTolerance(d.Tolerance); err != nil {
			return nil, err
		}
	}
	for _, c := range d.Compartments {
		if err := m.AddCompartment(Compartment{ID: c.ID, Name: c.Name}); err != nil {
			return nil, err
		}
	}
	for _, md := range d.Metabolites {
		met := Metabolite{
			ID:          md.ID,
			Name:        md.Name,
			Compartment: md.Compartment,
			Formula:     md.Formula,
			Charge:      md.Charge,
			SBO:         md.SBO,
		}
		if err := m.AddMetabolite(met); err != nil {
			return nil, err
		}
	}
	for _, rd := range d.Reactions {
		lo, hi := 0.0, DefaultUpperBound
		if rd.Reversible {
			lo = DefaultLowerBound
		}
		if rd.Lower != nil {
			lo = *rd.Lower
		}
		if rd.Upper != nil {
			hi = *rd.Upper
		}
		bt, err := ParseBoundaryType(rd.Boundary)
		if err != nil {
			return nil, fmt.Errorf("metabolic: reaction %q: %w", rd.ID, err)
		}
		r := Reaction{
			ID:            rd.ID,
			Name:          rd.Name,
			Stoichiometry: rd.Stoichiometry,
			Lower:         lo,
			Upper:         hi,
			SBO:           rd.SBO,
			Boundary:      bt,
		}
		if err := m.AddReaction(r); err != nil {
			return nil, err
		}
	}
	if len(d.Objective) > 0 {
		if err := m.SetObjective(d.Objective); err != nil {
			return nil, err
		}
	}

	return m, nil
}
