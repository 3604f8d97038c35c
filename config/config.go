// SPDX-License-Identifier: MIT
//
// File: config.go
// Role: runtime configuration for the stoich command.
// Precedence (highest first):
//   - command-line flags bound with Load,
//   - STOICH_* environment variables ("solver.max_nodes" -> STOICH_SOLVER_MAX_NODES),
//   - the config file,
//   - defaults from setDefaults.

package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/stoich/consistency"
	"github.com/katalvlaran/stoich/metabolic"
	"github.com/katalvlaran/stoich/optim/simplex"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STOICH"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	// Tolerance overrides the model tolerance when > 0.
	Tolerance     float64      `mapstructure:"tolerance" validate:"gte=0"`
	NullspaceAtol float64      `mapstructure:"nullspace_atol" validate:"gte=0"`
	MaxTargets    int          `mapstructure:"max_targets" validate:"gte=1"`
	Parallelism   int          `mapstructure:"parallelism" validate:"gte=1"`
	Solver        SolverConfig `mapstructure:"solver"`
	Log           LogConfig    `mapstructure:"log"`
	Energy        EnergyConfig `mapstructure:"energy"`
}

// SolverConfig configures optim/simplex.
type SolverConfig struct {
	Tolerance   float64 `mapstructure:"tolerance" validate:"gt=0"`
	Integrality float64 `mapstructure:"integrality" validate:"gt=0,lt=0.5"`
	MaxNodes    int     `mapstructure:"max_nodes" validate:"gte=1"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// EnergyConfig selects the carriers checked for energy-generating cycles.
type EnergyConfig struct {
	Carriers []string `mapstructure:"carriers" validate:"dive,required"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	carriers := make([]string, 0, len(consistency.Couples()))
	for _, cp := range consistency.Couples() {
		carriers = append(carriers, cp.Carrier)
	}
	keys := map[string]interface{}{
		"tolerance":          0.0,
		"nullspace_atol":     consistency.DefaultAbsTol,
		"max_targets":        consistency.DefaultMaxTargets,
		"parallelism":        runtime.NumCPU(),
		"solver.tolerance":   simplex.DefaultTolerance,
		"solver.integrality": simplex.DefaultIntegrality,
		"solver.max_nodes":   simplex.DefaultMaxNodes,
		"log.level":          "info",
		"log.development":    false,
		"energy.carriers":    carriers,
	}
	for k, value := range keys {
		v.SetDefault(k, value)
	}
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	c, err := Load("", nil)
	if err != nil {
		panic(err)
	}

	return c
}

// Load reads the configuration. path may be empty (no file); flags may be
// nil. Flags are matched to keys by name, e.g. --max_targets or --log.level.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks struct tags and that every carrier is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, id := range c.Energy.Carriers {
		if _, ok := consistency.CoupleOf(id); !ok {
			return fmt.Errorf("%w: energy.carriers: unknown carrier %q", ErrInvalid, id)
		}
	}
	if c.Tolerance != 0 && c.Tolerance > -metabolic.DefaultLowerBound {
		return fmt.Errorf("%w: tolerance %g exceeds the default flux bound", ErrInvalid, c.Tolerance)
	}

	return nil
}

// SolverOptions translates the solver section into simplex options.
func (c *Config) SolverOptions() []simplex.Option {
	return []simplex.Option{
		simplex.WithTolerance(c.Solver.Tolerance),
		simplex.WithIntegrality(c.Solver.Integrality),
		simplex.WithMaxNodes(c.Solver.MaxNodes),
	}
}

// CheckerOptions translates the checker fields into consistency options.
func (c *Config) CheckerOptions() []consistency.Option {
	return []consistency.Option{
		consistency.WithAbsTol(c.NullspaceAtol),
		consistency.WithMaxTargets(c.MaxTargets),
		consistency.WithParallelism(c.Parallelism),
	}
}
