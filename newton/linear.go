// SPDX-License-Identifier: MIT

package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cavity/matrix"
)

// LinearSolver solves J·dx = rhs for one Newton update.
type LinearSolver interface {
	Solve(J *matrix.Dense, rhs []float64) ([]float64, error)
	Name() string
}

// DenseLU solves with the package's own partially pivoted LU.
type DenseLU struct{}

// Name implements LinearSolver.
func (DenseLU) Name() string { return "lu" }

// Solve implements LinearSolver.
func (DenseLU) Solve(J *matrix.Dense, rhs []float64) ([]float64, error) {
	f, err := matrix.LU(J)
	if err != nil {
		return nil, err
	}

	return f.Solve(rhs)
}

// GonumLU solves with gonum's LAPACK-backed LU.
type GonumLU struct{}

// Name implements LinearSolver.
func (GonumLU) Name() string { return "gonum" }

// Solve implements LinearSolver. An exactly singular J reports
// matrix.ErrSingular; an ill-conditioned one still returns the solution.
func (GonumLU) Solve(J *matrix.Dense, rhs []float64) ([]float64, error) {
	if J == nil {
		return nil, matrix.ErrNilMatrix
	}
	n := J.Rows()
	if J.Cols() != n {
		return nil, matrix.ErrNonSquare
	}
	if len(rhs) != n {
		return nil, fmt.Errorf("gonum: len(rhs)=%d want %d: %w", len(rhs), n, matrix.ErrDimensionMismatch)
	}

	var lu mat.LU
	lu.Factorize(mat.NewDense(n, n, J.Data()))
	b := mat.NewVecDense(n, append([]float64(nil), rhs...))
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
		if math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("gonum: %w", matrix.ErrSingular)
		}
	}

	return x.RawVector().Data, nil
}

// SolverByName maps a configuration name to a backend.
func SolverByName(name string) (LinearSolver, error) {
	switch name {
	case "", "lu":
		return DenseLU{}, nil
	case "gonum":
		return GonumLU{}, nil
	default:
		return nil, fmt.Errorf("newton: unknown linear solver %q", name)
	}
}
