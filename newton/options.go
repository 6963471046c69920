// SPDX-License-Identifier: MIT

// Package newton: functional configuration for the nonlinear solver.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors (panic on nonsensical values: programmer error),
//   - gatherOptions helper that applies defaults then user options.
package newton

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTol is the absolute convergence threshold on ‖R‖∞.
	DefaultTol = 1e-8

	// DefaultRelTol disables the relative criterion.
	DefaultRelTol = 0.0

	// DefaultMaxIter bounds the number of Newton updates.
	DefaultMaxIter = 20
)

// Option mutates Options during gatherOptions.
type Option func(*Options)

// Options holds the solver configuration. Fields are read-only for callers;
// build instances through Option constructors.
type Options struct {
	tol     float64
	relTol  float64
	maxIter int
	workers int
	solver  LinearSolver
	pins    []pin
	logger  *slog.Logger
}

// pin replaces equation index by x[index] - value.
type pin struct {
	index int
	value float64
}

// Tol returns the absolute tolerance.
func (o Options) Tol() float64 { return o.tol }

// RelTol returns the relative tolerance.
func (o Options) RelTol() float64 { return o.relTol }

// MaxIter returns the iteration bound.
func (o Options) MaxIter() int { return o.maxIter }

// Workers returns the Jacobian worker count.
func (o Options) Workers() int { return o.workers }

// WithTol sets the absolute tolerance on ‖R‖∞. Panics if tol is negative or NaN.
func WithTol(tol float64) Option {
	if !(tol >= 0) {
		panic(fmt.Sprintf("newton: WithTol(%v): tolerance must be >= 0", tol))
	}

	return func(o *Options) { o.tol = tol }
}

// WithRelTol sets the relative tolerance: converge when ‖R‖∞ ≤ rel·‖R0‖∞.
// Zero disables it. Panics if rel is negative or NaN.
func WithRelTol(rel float64) Option {
	if !(rel >= 0) {
		panic(fmt.Sprintf("newton: WithRelTol(%v): tolerance must be >= 0", rel))
	}

	return func(o *Options) { o.relTol = rel }
}

// WithMaxIter bounds the number of Newton updates. Panics if n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("newton: WithMaxIter(%d): need at least one iteration", n))
	}

	return func(o *Options) { o.maxIter = n }
}

// WithWorkers sets how many goroutines assemble the Jacobian. Zero or
// negative means runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *Options) { o.workers = n }
}

// WithLinearSolver selects the backend for J·dx = R. Panics on nil.
func WithLinearSolver(s LinearSolver) Option {
	if s == nil {
		panic("newton: WithLinearSolver(nil)")
	}

	return func(o *Options) { o.solver = s }
}

// WithPin replaces equation index by x[index] − value. Use it to remove a
// redundant equation, e.g. fixing the pressure level of a closed cavity.
// Panics on a negative index or non-finite value.
func WithPin(index int, value float64) Option {
	if index < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		panic(fmt.Sprintf("newton: WithPin(%d, %v): invalid pin", index, value))
	}

	return func(o *Options) { o.pins = append(o.pins, pin{index: index, value: value}) }
}

// WithLogger routes iteration logs to l. Nil restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		tol:     DefaultTol,
		relTol:  DefaultRelTol,
		maxIter: DefaultMaxIter,
		solver:  DenseLU{},
	}
}

// gatherOptions applies user options over defaults and finalizes derived fields.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, opt := range user {
		if opt != nil {
			opt(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// NewOptions exposes the resolved configuration (useful for logging and tests).
func NewOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}
