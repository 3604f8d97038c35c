package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/stoich/condition"
	"github.com/katalvlaran/stoich/matrix"
)

func newConditionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "condition <model.yaml>",
		Short: "Print rank, conservation relations and coefficient spread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			rep, err := condition.Analyze(m, matrix.WithAbsTol(a.cfg.NullspaceAtol))
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
}

func newEnergyCmd(a *app) *cobra.Command {
	var carriers []string
	cmd := &cobra.Command{
		Use:   "energy <model.yaml>",
		Short: "Detect energy-generating cycles",
		Long: `Detect erroneous energy-generating cycles for each carrier couple.

Examples:
  stoich energy model.yaml
  stoich energy model.yaml --carrier MNXM3 --carrier MNXM6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			if len(carriers) == 0 {
				carriers = a.cfg.Energy.Carriers
			}
			out := make(map[string][]string, len(carriers))
			for _, id := range carriers {
				ids, err := a.checker.DetectEnergyCycle(cmd.Context(), m, id)
				if err != nil {
					return err
				}
				out[id] = ids
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&carriers, "carrier", nil, "carrier MetaNetX ID (repeatable; default: all configured)")

	return cmd
}
