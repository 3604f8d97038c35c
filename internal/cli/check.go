package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/condition"
	"github.com/katalvlaran/stoich/consistency"
	"github.com/katalvlaran/stoich/metabolic"
)

// Report is the JSON document printed by "stoich check".
type Report struct {
	Model string `json:"model"`

	MassUnbalanced   []string `json:"mass_unbalanced"`
	ChargeUnbalanced []string `json:"charge_unbalanced"`
	Orphans          []string `json:"orphans"`
	DeadEnds         []string `json:"dead_ends"`
	Disconnected     []string `json:"disconnected"`

	Consistent        bool                        `json:"consistent"`
	Unconserved       []string                    `json:"unconserved"`
	MinimalViolations []consistency.MetaboliteSet `json:"minimal_violations"`

	EnergyCycles   map[string][]string        `json:"energy_cycles"`
	BalancedCycles []string                   `json:"balanced_cycles"`
	NotProduced    []string                   `json:"not_produced"`
	NotConsumed    []string                   `json:"not_consumed"`
	UnboundedFlux  *consistency.UnboundedFlux `json:"unbounded_flux,omitempty"`

	Condition *condition.Report `json:"condition,omitempty"`

	// Skipped maps a check name to the reason it produced no result.
	Skipped map[string]string `json:"skipped,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <model.yaml>",
		Short: "Run every check and print a JSON report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			rep, err := a.runChecks(cmd.Context(), m)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
}

// runChecks executes the checks in order; the first solver failure aborts.
// Checks whose preconditions do not hold are recorded in Skipped.
func (a *app) runChecks(ctx context.Context, m *metabolic.Model) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := a.checker
	rep := &Report{
		Model:            m.ID(),
		MassUnbalanced:   consistency.FindMassUnbalanced(m),
		ChargeUnbalanced: consistency.FindChargeUnbalanced(m),
		Orphans:          consistency.FindOrphans(m),
		DeadEnds:         consistency.FindDeadEnds(m),
		Disconnected:     consistency.FindDisconnected(m),
		EnergyCycles:     make(map[string][]string),
		Skipped:          make(map[string]string),
	}

	var err error
	if rep.Consistent, err = c.IsConsistent(ctx, m); err != nil {
		return nil, err
	}
	if rep.Unconserved, err = c.FindUnconserved(ctx, m); err != nil {
		return nil, err
	}
	if rep.MinimalViolations, err = c.FindMinimalViolations(ctx, m); err != nil {
		return nil, err
	}
	for _, carrier := range a.cfg.Energy.Carriers {
		ids, err := c.DetectEnergyCycle(ctx, m, carrier)
		if err != nil {
			return nil, err
		}
		rep.EnergyCycles[carrier] = ids
	}
	if rep.BalancedCycles, err = c.FindBalancedCycles(ctx, m); err != nil {
		return nil, err
	}
	if rep.NotProduced, err = c.FindNotProduced(ctx, m); err != nil {
		return nil, err
	}
	if rep.NotConsumed, err = c.FindNotConsumed(ctx, m); err != nil {
		return nil, err
	}

	rep.UnboundedFlux, err = c.FindUnboundedFlux(ctx, m)
	switch {
	case errors.Is(err, consistency.ErrNoNonBlockedReactions):
		rep.Skipped["unbounded_flux"] = err.Error()
	case err != nil:
		return nil, err
	}

	rep.Condition, err = condition.Analyze(m)
	switch {
	case errors.Is(err, condition.ErrEmptyMatrix):
		rep.Skipped["condition"] = err.Error()
	case err != nil:
		return nil, err
	}

	a.logger.Info("checks finished",
		zap.String("model", rep.Model),
		zap.Bool("consistent", rep.Consistent),
		zap.Int("unconserved", len(rep.Unconserved)),
		zap.Int("minimal_violations", len(rep.MinimalViolations)),
	)

	return rep, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
