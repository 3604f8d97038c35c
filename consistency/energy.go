// SPDX-License-Identifier: MIT
//
// File: energy.go
// Role: erroneous energy-generating cycles.
// Approach:
//   - Every energy carrier is paired with its discharged partner. A
//     dissipation reaction converts carrier into partner (plus template
//     by-products); if the closed model can drive it, the network creates
//     energy from nothing.

package consistency

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/flux"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim"
)

// DissipationID is the reaction added by DetectEnergyCycle.
const DissipationID = "Dissipation"

// cytosolKey is the compartment in which energy metabolites are looked up.
const cytosolKey = "c"

// MetaNetX identifiers of the template by-products.
const (
	mnxWater   = "MNXM2"
	mnxProton  = "MNXM1"
	mnxPhos    = "MNXM9"
	mnxAcetate = "MNXM26"
	mnxAmmonia = "MNXM15"
)

// Template is the class of a dissipation reaction.
type Template int

const (
	// Nucleotide: NTP + h2o -> NDP + h + pi.
	Nucleotide Template = iota
	// Nicotinamide: NAD(P)H -> NAD(P) + h.
	Nicotinamide
	// Redox: reduced carrier -> oxidised carrier + 2 h.
	Redox
	// CoA: acetyl-CoA + h2o -> CoA + h + acetate.
	CoA
	// Glutamate: glutamate + h2o -> 2-oxoglutarate + 2 h + nh4.
	Glutamate
)

func (t Template) String() string {
	switch t {
	case Nucleotide:
		return "nucleotide"
	case Nicotinamide:
		return "nicotinamide"
	case Redox:
		return "redox"
	case CoA:
		return "coa"
	case Glutamate:
		return "glutamate"
	default:
		return fmt.Sprintf("Template(%d)", int(t))
	}
}

// templateTerms lists the by-products of each template besides the
// carrier (-1) and its partner (+1).
var templateTerms = map[Template]map[string]float64{
	Nucleotide:   {mnxWater: -1, mnxProton: 1, mnxPhos: 1},
	Nicotinamide: {mnxProton: 1},
	Redox:        {mnxProton: 2},
	CoA:          {mnxWater: -1, mnxProton: 1, mnxAcetate: 1},
	Glutamate:    {mnxWater: -1, mnxProton: 2, mnxAmmonia: 1},
}

// Couple pairs a charged energy carrier with its discharged partner.
type Couple struct {
	Carrier  string
	Partner  string
	Template Template
}

var couples = []Couple{
	{"MNXM3", "MNXM7", Nucleotide},
	{"MNXM63", "MNXM220", Nucleotide},
	{"MNXM51", "MNXM30", Nucleotide},
	{"MNXM121", "MNXM17", Nucleotide},
	{"MNXM423", "MNXM495", Nucleotide},
	{"MNXM6", "MNXM5", Nicotinamide},
	{"MNXM10", "MNXM8", Nicotinamide},
	{"MNXM38", "MNXM33", Redox},
	{"MNXM208", "MNXM119", Redox},
	{"MNXM191", "MNXM232", Redox},
	{"MNXM223", "MNXM509", Redox},
	{"MNXM7517", "MNXM12235", Redox},
	{"MNXM12233", "MNXM12236", Redox},
	{"MNXM558", "MNXM2178", Redox},
	{"MNXM21", "MNXM12", CoA},
	{"MNXM89557", "MNXM20", Glutamate},
}

// Couples returns the energy couple table in canonical order.
func Couples() []Couple { return append([]Couple(nil), couples...) }

// CoupleOf returns the couple whose carrier is carrierID.
func CoupleOf(carrierID string) (Couple, bool) {
	for _, cp := range couples {
		if cp.Carrier == carrierID {
			return cp, true
		}
	}

	return Couple{}, false
}

// Resolver maps a MetaNetX identifier to a metabolite of model in the given
// compartment. ok is false when no metabolite matches; an error is returned
// when the match is ambiguous.
type Resolver interface {
	Resolve(model *metabolic.Model, mnxID, compartment string) (id string, ok bool, err error)
}

// AliasResolver matches metabolite IDs against per-identifier aliases. An
// alias a matches IDs of the form ^a(_[A-Za-z0-9]+)?$, so "atp" matches
// "atp" and "atp_c". The MetaNetX identifier itself is always an alias.
type AliasResolver struct {
	Aliases map[string][]string
}

var defaultAliases = map[string][]string{
	"MNXM1":     {"h", "proton"},
	"MNXM2":     {"h2o", "water"},
	"MNXM3":     {"atp"},
	"MNXM5":     {"nadp"},
	"MNXM6":     {"nadph"},
	"MNXM7":     {"adp"},
	"MNXM8":     {"nad"},
	"MNXM9":     {"pi"},
	"MNXM10":    {"nadh"},
	"MNXM12":    {"coa"},
	"MNXM15":    {"nh4"},
	"MNXM17":    {"udp"},
	"MNXM20":    {"akg"},
	"MNXM21":    {"accoa"},
	"MNXM26":    {"ac"},
	"MNXM30":    {"cdp"},
	"MNXM33":    {"fad"},
	"MNXM38":    {"fadh2"},
	"MNXM51":    {"ctp"},
	"MNXM63":    {"gtp"},
	"MNXM119":   {"q8"},
	"MNXM121":   {"utp"},
	"MNXM191":   {"mql8"},
	"MNXM208":   {"q8h2"},
	"MNXM220":   {"gdp"},
	"MNXM223":   {"2dmmql8"},
	"MNXM232":   {"mqn8"},
	"MNXM423":   {"itp"},
	"MNXM495":   {"idp"},
	"MNXM509":   {"2dmmq8"},
	"MNXM558":   {"trdrd"},
	"MNXM2178":  {"trdox"},
	"MNXM7517":  {"fdxrd"},
	"MNXM12233": {"flxr"},
	"MNXM12235": {"fdxox"},
	"MNXM12236": {"flxso"},
	"MNXM89557": {"glu__L"},
}

// DefaultResolver returns an AliasResolver over the built-in alias table.
func DefaultResolver() *AliasResolver {
	aliases := make(map[string][]string, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = append([]string(nil), v...)
	}

	return &AliasResolver{Aliases: aliases}
}

// Resolve implements Resolver.
func (r *AliasResolver) Resolve(model *metabolic.Model, mnxID, compartment string) (string, bool, error) {
	names := append([]string{mnxID}, r.Aliases[mnxID]...)
	patterns := make([]*regexp.Regexp, len(names))
	for i, a := range names {
		patterns[i] = regexp.MustCompile("^" + regexp.QuoteMeta(a) + "(_[A-Za-z0-9]+)?$")
	}
	var hits []string
	for _, met := range model.Metabolites() {
		if met.Compartment != compartment {
			continue
		}
		for _, re := range patterns {
			if re.MatchString(met.ID) {
				hits = append(hits, met.ID)
				break
			}
		}
	}
	switch len(hits) {
	case 0:
		return "", false, nil
	case 1:
		return hits[0], true, nil
	default:
		sort.Strings(hits)
		return "", false, fmt.Errorf("%w: %s in %q: %v", ErrAmbiguousMetabolite, mnxID, compartment, hits)
	}
}

// DissipationReaction resolves the dissipation stoichiometry of carrierID
// in the cytosol of model. ok is false when a metabolite is missing.
func (c *Checker) DissipationReaction(model *metabolic.Model, carrierID string) (map[string]float64, bool, error) {
	cp, known := CoupleOf(carrierID)
	if !known {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownCarrier, carrierID)
	}
	comp, err := model.FindCompartment(cytosolKey)
	if err != nil {
		c.logger.Warn("cytosol not found", zap.String("carrier", carrierID), zap.Error(err))
		return nil, false, nil
	}

	terms := map[string]float64{cp.Carrier: -1, cp.Partner: 1}
	for mnx, coef := range templateTerms[cp.Template] {
		terms[mnx] += coef
	}
	keys := make([]string, 0, len(terms))
	for mnx := range terms {
		keys = append(keys, mnx)
	}
	sort.Strings(keys)

	stoich := make(map[string]float64, len(terms))
	for _, mnx := range keys {
		id, ok, err := c.resolver.Resolve(model, mnx, comp)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			c.logger.Warn("energy metabolite not found",
				zap.String("carrier", carrierID),
				zap.String("metabolite", mnx),
				zap.String("compartment", comp),
			)
			return nil, false, nil
		}
		stoich[id] += terms[mnx]
	}
	for id, coef := range stoich {
		if coef == 0 {
			delete(stoich, id)
		}
	}

	return stoich, true, nil
}

// DetectEnergyCycle returns the reactions of an erroneous energy-generating
// cycle for the given carrier, sorted by ID. A model lacking any of the
// needed metabolites yields an empty result and a warning.
//
// Implementation:
//   - Stage 1: resolve carrier, partner and template by-products.
//   - Stage 2: inside a scoped edit, close boundaries sensibly, add the
//     Dissipation reaction [0, 1000] and make it the sole objective.
//   - Stage 3: maximise; if the optimum exceeds the model tolerance report
//     every other reaction whose |flux| exceeds it.
//
// A non-optimal solve fails with a *StatusError.
func (c *Checker) DetectEnergyCycle(ctx context.Context, model *metabolic.Model, carrierID string) ([]string, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	stoich, ok, err := c.DissipationReaction(model, carrierID)
	if err != nil || !ok {
		return []string{}, err
	}

	out := []string{}
	err = model.Edit(func(m *metabolic.Model) error {
		m.CloseBoundariesSensibly()
		diss := metabolic.Reaction{
			ID:            DissipationID,
			Name:          "dissipation of " + carrierID,
			Stoichiometry: stoich,
			Lower:         0,
			Upper:         metabolic.DefaultUpperBound,
		}
		if err := m.AddReaction(diss); err != nil {
			return fmt.Errorf("consistency: %w", err)
		}
		if err := m.SetObjective(map[string]float64{DissipationID: 1}); err != nil {
			return fmt.Errorf("consistency: %w", err)
		}

		res, err := flux.Optimize(ctx, c.solver, m)
		if err != nil {
			return err
		}
		if res.Status != optim.StatusOptimal {
			return &StatusError{Op: opEnergy, Status: res.Status}
		}
		tol := m.Tolerance()
		if res.Objective <= tol {
			return nil
		}
		for id, v := range res.Fluxes {
			if id != DissipationID && math.Abs(v) > tol {
				out = append(out, id)
			}
		}
		sort.Strings(out)

		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("energy cycle", zap.String("carrier", carrierID), zap.Int("reactions", len(out)))

	return out, nil
}
