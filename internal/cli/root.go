// Package cli provides the command-line interface for stoich.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/config"
	"github.com/katalvlaran/stoich/consistency"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim/simplex"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath  string
	metricsPath string

	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	checker  *consistency.Checker
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "stoich",
		Short: "Stoichiometric consistency checks for metabolic models",
		Long: `stoich loads a metabolic model from YAML and reports mass and charge
balance, stoichiometric consistency, unconserved metabolites, minimal
inconsistent sets, energy-generating and balanced cycles, blocked
metabolites and the condition of the stoichiometric matrix.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (yaml, json or toml)")
	pf.StringVar(&a.metricsPath, "metrics-file", "", "write solver metrics in text exposition format to this file")
	pf.Float64("tolerance", 0, "override the model tolerance")
	pf.Int("max_targets", consistency.DefaultMaxTargets, "cap on computed minimal inconsistent sets")
	pf.Int("parallelism", 0, "workers for the blocked-metabolite scan (default: CPU count)")
	pf.String("log.level", "info", "log level: debug, info, warn, error")
	pf.Bool("log.development", false, "human-readable development logging")

	root.AddCommand(newCheckCmd(a), newConditionCmd(a), newEnergyCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger, err = newLogger(cfg.Log); err != nil {
		return err
	}
	a.logger = a.logger.With(zap.String("run", uuid.NewString()))

	a.registry = prometheus.NewRegistry()
	metrics, err := simplex.NewMetrics(a.registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	solver := simplex.New(append(cfg.SolverOptions(), simplex.WithLogger(a.logger), simplex.WithMetrics(metrics))...)
	a.checker = consistency.New(solver, append(cfg.CheckerOptions(), consistency.WithLogger(a.logger))...)

	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.metricsPath != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(a.metricsPath, a.registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

// loadModel reads a model and applies the configured tolerance.
func (a *app) loadModel(path string) (*metabolic.Model, error) {
	m, err := metabolic.LoadYAML(path)
	if err != nil {
		return nil, err
	}
	if a.cfg.Tolerance > 0 {
		if err = m.SetTolerance(a.cfg.Tolerance); err != nil {
			return nil, err
		}
	}
	a.logger.Info("model loaded",
		zap.String("model", m.ID()),
		zap.Int("metabolites", len(m.MetaboliteIDs())),
		zap.Int("reactions", len(m.ReactionIDs())),
	)

	return m, nil
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level

	return zc.Build()
}
