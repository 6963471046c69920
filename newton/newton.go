// SPDX-License-Identifier: MIT

// Package newton solves nonlinear systems R(x) = 0 with Newton's method,
// using a finite-difference Jacobian and a pluggable dense linear solver.
//
// Convergence:
//   - ‖R(x)‖∞ ≤ Tol, or
//   - ‖R(x)‖∞ ≤ RelTol·‖R(x0)‖∞ when RelTol > 0.
//
// Pinned equations (WithPin) are substituted before the norm is taken, so
// both criteria see the system that is actually solved.
package newton

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/cavity/matrix"
)

// ErrNotConverged is returned when MaxIter updates did not reach tolerance.
// The accompanying Result holds the last iterate.
var ErrNotConverged = errors.New("newton: did not converge")

// ErrPinOutOfRange indicates a pin index past the end of x.
var ErrPinOutOfRange = errors.New("newton: pin index out of range")

// Result reports the outcome of Solve.
type Result struct {
	X          []float64 // final iterate
	Iterations int       // Newton updates performed
	Residual   float64   // ‖R(X)‖∞ (pinned system)
	History    []float64 // residual norm before each update, plus the final one
}

// Solve runs Newton's method from x0; x0 is not modified.
//
// Errors:
//   - ErrPinOutOfRange for a pin outside x0.
//   - ErrNotConverged (with a populated Result) after MaxIter updates.
//   - errors from f, the Jacobian or the linear solver, wrapped with the iteration.
//   - ctx.Err() when the context is cancelled between iterations.
func Solve(ctx context.Context, f ResidualFunc, x0 []float64, opts ...Option) (Result, error) {
	o := gatherOptions(opts...)
	n := len(x0)
	for _, p := range o.pins {
		if p.index >= n {
			return Result{}, fmt.Errorf("newton: pin %d for %d unknowns: %w", p.index, n, ErrPinOutOfRange)
		}
	}

	x := append([]float64(nil), x0...)
	raw := make([]float64, n)
	rhs := make([]float64, n)
	if err := f(raw, x); err != nil {
		return Result{}, fmt.Errorf("newton: initial residual: %w", err)
	}

	res := Result{X: x}
	var res0 float64
	for it := 0; ; it++ {
		copy(rhs, raw)
		o.applyPins(rhs, x)
		norm := matrix.NormInf(rhs)
		res.History = append(res.History, norm)
		res.Residual = norm
		if it == 0 {
			res0 = norm
		}
		o.logger.Debug("newton iteration", "iter", it, "residual", norm, "solver", o.solver.Name())

		if norm <= o.tol || (o.relTol > 0 && norm <= o.relTol*res0) {
			return res, nil
		}
		if it >= o.maxIter {
			return res, fmt.Errorf("newton: residual %g after %d iterations: %w", norm, it, ErrNotConverged)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		J, err := Jacobian(ctx, f, x, raw, o.workers)
		if err != nil {
			return res, fmt.Errorf("newton: iteration %d: %w", it, err)
		}
		o.pinRows(J)
		dx, err := o.solver.Solve(J, rhs)
		if err != nil {
			return res, fmt.Errorf("newton: iteration %d: %w", it, err)
		}
		for i := range x {
			x[i] -= dx[i]
		}
		res.Iterations = it + 1
		if err = f(raw, x); err != nil {
			return res, fmt.Errorf("newton: iteration %d: %w", it, err)
		}
	}
}

// applyPins overwrites pinned equations with x[i] − value.
func (o Options) applyPins(r, x []float64) {
	for _, p := range o.pins {
		r[p.index] = x[p.index] - p.value
	}
}

// pinRows turns pinned Jacobian rows into unit rows.
func (o Options) pinRows(J *matrix.Dense) {
	n, data := J.Cols(), J.Data()
	for _, p := range o.pins {
		row := data[p.index*n : (p.index+1)*n]
		clear(row)
		row[p.index] = 1
	}
}
