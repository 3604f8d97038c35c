package metabolic

import (
	"regexp"
	"sort"
	"strings"
)

var (
	reactionNameBuzzwords = []*regexp.Regexp{
		regexp.MustCompile(`\bbiomass`),
		regexp.MustCompile(`\bgrowth`),
		regexp.MustCompile(`bof`),
	}
	metaboliteNameBuzzwords = []*regexp.Regexp{
		regexp.MustCompile(`\bbiomass`),
	}
)

const idBuzzword = "biomass"

// Biomass returns the IDs of the biomass reactions, sorted. Boundary
// reactions never qualify.
//
// The first non-empty stage wins:
//  1. reactions annotated SBO:0000629;
//  2. reactions whose name matches biomass/growth/bof or whose ID contains
//     "biomass";
//  3. reactions of metabolites annotated SBO:0000649 that also carry
//     "biomass" in name or ID;
//  4. reactions of any metabolite with "biomass" in name or ID.
func (m *Model) Biomass() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.biomassLocked()
}

func (m *Model) biomassLocked() []string {
	// 1) SBO annotation
	if c := m.candidates(func(r *Reaction) bool { return r.SBO == SBOBiomassProduction }); len(c) > 0 {
		return c
	}

	// 2) reaction name and ID
	if c := m.candidates(func(r *Reaction) bool {
		return matchName(r.Name, reactionNameBuzzwords) || strings.Contains(strings.ToLower(r.ID), idBuzzword)
	}); len(c) > 0 {
		return c
	}

	// 3) + 4) biomass metabolites
	named := make(map[string]bool)
	annotated := make(map[string]bool)
	for _, id := range m.metOrder {
		met := m.mets[id]
		if matchName(met.Name, metaboliteNameBuzzwords) || strings.Contains(strings.ToLower(met.ID), idBuzzword) {
			named[id] = true
			if met.SBO == SBOBiomass {
				annotated[id] = true
			}
		}
	}
	for _, set := range []map[string]bool{annotated, named} {
		if len(set) == 0 {
			continue
		}
		if c := m.candidates(func(r *Reaction) bool { return touches(r, set) }); len(c) > 0 {
			return c
		}
	}

	return nil
}

// candidates returns the sorted IDs of non-boundary reactions satisfying keep.
func (m *Model) candidates(keep func(*Reaction) bool) []string {
	var out []string
	for _, id := range m.rxnOrder {
		r := m.rxns[id]
		if !r.IsBoundary() && keep(r) {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

func matchName(name string, patterns []*regexp.Regexp) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if loc := p.FindStringIndex(lower); loc != nil && loc[0] == 0 {
			return true
		}
	}

	return false
}

func touches(r *Reaction, mets map[string]bool) bool {
	for met := range r.Stoichiometry {
		if mets[met] {
			return true
		}
	}

	return false
}
