// SPDX-License-Identifier: MIT
//
// File: checker.go
// Role: Checker construction and functional options.
// Concurrency:
//   - A Checker holds configuration only; methods may run concurrently on
//     distinct models. Checks that edit a model serialise on Model.Edit.

package consistency

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/stoich/matrix"
	"github.com/katalvlaran/stoich/optim"
)

// Defaults for New.
const (
	// DefaultMaxTargets caps how many minimal sets FindMinimalViolations records.
	DefaultMaxTargets = 10

	// DefaultAbsTol is the singular-value cut-off of the left nullspace.
	DefaultAbsTol = matrix.DefaultAbsTol
)

// Checker runs the consistency checks against one solver backend.
type Checker struct {
	solver      optim.Solver
	logger      *zap.Logger
	atol        float64
	maxTargets  int
	parallelism int
	resolver    Resolver
}

// Option configures a Checker.
type Option func(*Checker)

// New returns a Checker backed by solver. Panics if solver is nil.
func New(solver optim.Solver, opts ...Option) *Checker {
	if solver == nil {
		panic("consistency: New: nil solver")
	}
	c := &Checker{
		solver:      solver,
		logger:      zap.NewNop(),
		atol:        DefaultAbsTol,
		maxTargets:  DefaultMaxTargets,
		parallelism: runtime.NumCPU(),
		resolver:    DefaultResolver(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l.Named("consistency")
		}
	}
}

// WithAbsTol sets the nullspace tolerance. Panics unless tol is finite and ≥ 0.
func WithAbsTol(tol float64) Option {
	if !(tol >= 0) || math.IsInf(tol, 0) {
		panic(fmt.Sprintf("consistency: WithAbsTol(%g): tolerance must be finite and >= 0", tol))
	}

	return func(c *Checker) { c.atol = tol }
}

// WithMaxTargets caps the number of computed minimal sets. Panics if n < 1.
func WithMaxTargets(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("consistency: WithMaxTargets(%d): must be >= 1", n))
	}

	return func(c *Checker) { c.maxTargets = n }
}

// WithParallelism sets the worker count of FindBlocked. Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("consistency: WithParallelism(%d): must be >= 1", n))
	}

	return func(c *Checker) { c.parallelism = n }
}

// WithResolver replaces the energy-metabolite resolver.
func WithResolver(r Resolver) Option {
	return func(c *Checker) {
		if r != nil {
			c.resolver = r
		}
	}
}
