package consistency_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stoich/consistency"
)

const balanceYAML = `
id: balance
compartments: [{id: c, name: cytosol}]
metabolites:
  - {id: glc_c, compartment: c, formula: C6H12O6, charge: 0}
  - {id: g6p_c, compartment: c, formula: C6H11O9P, charge: -2}
  - {id: atp_c, compartment: c, formula: C10H12N5O13P3, charge: -4}
  - {id: adp_c, compartment: c, formula: C10H12N5O10P2, charge: -3}
  - {id: h_c, compartment: c, formula: H, charge: 1}
  - {id: x_c, compartment: c}
  - {id: half_c, compartment: c, formula: C0.5H1, charge: 0}
  - {id: ch2_c, compartment: c, formula: CH2, charge: 0}
reactions:
  - {id: HEX1, stoichiometry: {glc_c: -1, atp_c: -1, g6p_c: 1, adp_c: 1, h_c: 1}}
  - {id: HEX2, stoichiometry: {glc_c: -1, atp_c: -1, g6p_c: 1, adp_c: 1}}
  - {id: UNK, stoichiometry: {glc_c: -1, x_c: 1}}
  - {id: FRAC, stoichiometry: {half_c: -2, ch2_c: 1}}
`

func TestBalance(t *testing.T) {
	m := load(t, balanceYAML)
	check := func(id string, mass, charge bool) {
		t.Helper()
		r, err := m.Reaction(id)
		require.NoError(t, err)
		require.Equal(t, mass, consistency.IsMassBalanced(m, &r), "mass %s", id)
		require.Equal(t, charge, consistency.IsChargeBalanced(m, &r), "charge %s", id)
	}
	check("HEX1", true, true)
	check("HEX2", false, false)
	check("UNK", false, false)
	check("FRAC", true, true)

	require.Equal(t, []string{"HEX2", "UNK"}, consistency.FindMassUnbalanced(m))
	require.Equal(t, []string{"HEX2", "UNK"}, consistency.FindChargeUnbalanced(m))
}
