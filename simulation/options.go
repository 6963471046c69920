// SPDX-License-Identifier: MIT

package simulation

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/cavity/newton"
)

// DefaultSteps is used when neither WithSteps nor WithFinalTime is given.
const DefaultSteps = 1

// Option configures Run.
type Option func(*Options)

// Options holds the time stepping configuration.
type Options struct {
	steps     int
	finalTime float64
	steadyTol float64
	pin       bool
	initial   []float64
	newton    []newton.Option
	onStep    func(Step) error
	logger    *slog.Logger
}

// WithSteps fixes the number of time steps. Panics if n < 1.
func WithSteps(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("simulation: WithSteps(%d): need at least one step", n))
	}

	return func(o *Options) { o.steps = n }
}

// WithFinalTime runs ceil(t/dt) steps; it overrides WithSteps. Panics if t <= 0.
func WithFinalTime(t float64) Option {
	if !(t > 0) {
		panic(fmt.Sprintf("simulation: WithFinalTime(%v): time must be > 0", t))
	}

	return func(o *Options) { o.finalTime = t }
}

// StopOnSteady ends the run once max|φ − φ_old| over U and V drops to tol.
// Zero disables the check. Panics if tol is negative or NaN.
func StopOnSteady(tol float64) Option {
	if !(tol >= 0) {
		panic(fmt.Sprintf("simulation: StopOnSteady(%v): tolerance must be >= 0", tol))
	}

	return func(o *Options) { o.steadyTol = tol }
}

// WithPressurePin toggles fixing P0 = 0 in place of the first mass
// equation. It is on by default: the mass equations of a closed cavity sum
// to zero, so the unpinned Jacobian is singular.
func WithPressurePin(on bool) Option {
	return func(o *Options) { o.pin = on }
}

// WithInitial starts from X instead of the fluid at rest. X is copied.
func WithInitial(X []float64) Option {
	return func(o *Options) { o.initial = append([]float64(nil), X...) }
}

// WithNewton forwards options to every Newton solve.
func WithNewton(opts ...newton.Option) Option {
	return func(o *Options) { o.newton = append(o.newton, opts...) }
}

// OnStep registers a hook called after each accepted step. A non-nil
// error aborts the run and is returned from Run.
func OnStep(fn func(Step) error) Option {
	return func(o *Options) { o.onStep = fn }
}

// WithLogger routes step logs to l. Nil restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(user ...Option) Options {
	o := Options{steps: DefaultSteps, pin: true}
	for _, opt := range user {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
