package consistency

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/stoich/flux"
	"github.com/katalvlaran/stoich/metabolic"
)

// FindBalancedCycles returns the reactions that reach a unit bound while
// every boundary reaction is closed, sorted by ID. Such reactions can only
// carry flux around stoichiometrically balanced cycles.
func (c *Checker) FindBalancedCycles(ctx context.Context, model *metabolic.Model) ([]string, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	out := []string{}
	err := model.Edit(func(m *metabolic.Model) error {
		m.CloseBoundariesSensibly()
		ranges, err := flux.Variability(ctx, c.solver, m, flux.WithLoopless(false))
		if err != nil {
			return fmt.Errorf("consistency: balanced cycles: %w", err)
		}
		for id, r := range ranges {
			if r.Min <= -1+CycleTolerance || r.Max >= 1-CycleTolerance {
				out = append(out, id)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)

	return out, nil
}
