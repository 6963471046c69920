// SPDX-License-Identifier: MIT

// Package simulation advances the lid-driven cavity in time with implicit
// Euler steps: every step solves residual.Function(X, graph) = 0 with
// Newton's method, then moves the new velocities into the graph's
// previous time level.
//
// Hooks:
//   - OnStep(fn) observes every accepted step (persist, plot, abort).
//
// Complexity per step: k Newton iterations × (n residuals + O(n^3) LU),
// n = 3·nx·ny.
package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/cavity/newton"
	"github.com/katalvlaran/cavity/residual"
	"github.com/katalvlaran/cavity/staggered"
)

// Step describes one accepted time step.
type Step struct {
	Index      int       // 1-based step number
	Time       float64   // simulated time after the step
	Iterations int       // Newton updates used
	Residual   float64   // final ‖R‖∞
	Change     float64   // max |φ − φ_old| over U and V
	X          []float64 // solution, interleaved [P, U, V]
}

// Result is the outcome of Run.
type Result struct {
	Graph   *staggered.Graph // private copy holding the last time level in PhiOld
	X       []float64        // last accepted solution
	Steps   int              // accepted steps
	Time    float64          // simulated time reached
	Steady  bool             // stopped by StopOnSteady
	Elapsed time.Duration    // wall time
}

// Run time-steps the cavity described by g. g itself is not modified: the
// run works on a clone whose final state is returned in Result.Graph.
//
// On error the partial Result (steps accepted so far) is returned with it.
func Run(ctx context.Context, g *staggered.Graph, opts ...Option) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}
	o := gatherOptions(opts...)
	work := g.Clone()

	x := o.initial
	if x == nil {
		x = make([]float64, work.Unknowns())
	} else if len(x) != work.Unknowns() {
		return nil, fmt.Errorf("simulation: initial len %d want %d: %w", len(x), work.Unknowns(), residual.ErrLengthMismatch)
	}
	steps := o.steps
	if o.finalTime > 0 {
		steps = int(math.Ceil(o.finalTime/work.Dt - 1e-9))
	}

	f := func(dst, x []float64) error { return residual.Into(dst, x, work) }
	nopts := append([]newton.Option{newton.WithLogger(o.logger)}, o.newton...)
	if o.pin {
		nopts = append(nopts, newton.WithPin(residual.PIndex(0), 0))
	}

	start := time.Now()
	res := &Result{Graph: work, X: x}
	o.logger.Info("simulation start",
		"nx", work.Pressure.Nx, "ny", work.Pressure.Ny,
		"dt", work.Dt, "steps", steps, "reynolds", work.Reynolds())
	for s := 1; s <= steps; s++ {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}
		sol, err := newton.Solve(ctx, f, x, nopts...)
		if err != nil {
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("simulation: step %d: %w", s, err)
		}
		_, U, V, err := residual.Split(sol.X, work)
		if err != nil {
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("simulation: step %d: %w", s, err)
		}
		change := math.Max(maxDiff(U, work.NSX.PhiOld), maxDiff(V, work.NSY.PhiOld))
		copy(work.NSX.PhiOld, U)
		copy(work.NSY.PhiOld, V)
		x = sol.X

		res.X, res.Steps, res.Time = x, s, float64(s)*work.Dt
		step := Step{
			Index:      s,
			Time:       res.Time,
			Iterations: sol.Iterations,
			Residual:   sol.Residual,
			Change:     change,
			X:          x,
		}
		o.logger.Info("step", "n", s, "t", step.Time, "newton", sol.Iterations,
			"residual", sol.Residual, "change", change)
		if o.onStep != nil {
			if err = o.onStep(step); err != nil {
				res.Elapsed = time.Since(start)
				return res, fmt.Errorf("simulation: step %d hook: %w", s, err)
			}
		}
		if o.steadyTol > 0 && change <= o.steadyTol {
			res.Steady = true
			break
		}
	}
	res.Elapsed = time.Since(start)

	return res, nil
}

// maxDiff returns max_i |a_i − b_i|.
func maxDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}

	return m
}
