// SPDX-License-Identifier: MIT

package newton

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/cavity/matrix"
)

// ResidualFunc writes R(x) into dst. len(dst) == len(x). It must be safe
// to call from several goroutines with distinct dst/x buffers.
type ResidualFunc func(dst, x []float64) error

// sqrtEps is the relative forward-difference step.
var sqrtEps = math.Sqrt(2.220446049250313e-16)

// Jacobian approximates ∂R/∂x at x by forward differences:
//
//	J[:, j] = (R(x + h_j·e_j) − r0) / h_j,  h_j = √ε·max(|x_j|, 1)
//
// r0 must equal R(x). Columns are split into contiguous blocks, one per
// worker; each worker owns its perturbed copy of x and its residual buffer.
// The first error (or ctx cancellation) stops the remaining workers.
//
// Complexity: n residual evaluations, O(n^2) memory for J.
func Jacobian(ctx context.Context, f ResidualFunc, x, r0 []float64, workers int) (*matrix.Dense, error) {
	n := len(x)
	if len(r0) != n {
		return nil, fmt.Errorf("jacobian: len(r0)=%d len(x)=%d: %w", len(r0), n, matrix.ErrDimensionMismatch)
	}
	J, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("jacobian: %w", err)
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			xp := make([]float64, n)
			copy(xp, x)
			rp := make([]float64, n)
			col := make([]float64, n)
			for j := lo; j < hi; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				h := sqrtEps * math.Max(math.Abs(x[j]), 1)
				xp[j] = x[j] + h
				h = xp[j] - x[j] // exact representable step
				if err := f(rp, xp); err != nil {
					return fmt.Errorf("jacobian: column %d: %w", j, err)
				}
				xp[j] = x[j]
				for i := range col {
					col[i] = (rp[i] - r0[i]) / h
				}
				if err := J.SetColumn(j, col); err != nil {
					return fmt.Errorf("jacobian: column %d: %w", j, err)
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return J, nil
}
