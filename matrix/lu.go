// SPDX-License-Identifier: MIT
// Package matrix: LU factorization with partial pivoting.
//
// Purpose:
//   - Factor P·A = L·U once and reuse the factors for several right-hand sides.
//   - Keep L (unit lower) and U (upper) packed in a single n×n buffer.
//
// Determinism:
//   - Pivot choice is the first row holding the largest |a_ik| (ties keep the
//     lower index), so identical inputs produce identical permutations.

package matrix

import (
	"fmt"
	"math"
)

// Operation tags for uniform error wrapping.
const (
	opLU     = "LU"
	opSolve  = "LUFactors.Solve"
	opMatVec = "MatVec"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// LUFactors holds the packed factors of P·A = L·U.
//   - lu: strictly lower part is L (unit diagonal implied), upper part is U.
//   - perm: perm[i] is the original row now stored at row i.
//   - sign: +1/-1 parity of the permutation (for Det).
type LUFactors struct {
	n    int
	lu   []float64
	perm []int
	sign float64
}

// LU computes the factorization P·A = L·U with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); copy it into a packed buffer.
//   - Stage 2: For k=0..n-1 pick the pivot row, swap, scale the column
//     below the pivot into L, and update the trailing submatrix.
//
// Inputs:
//   - m: square Matrix (n×n); m itself is not modified.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (pivot column is all zeros).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m Matrix) (*LUFactors, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}

	n := m.Rows()
	f := &LUFactors{
		n:    n,
		lu:   make([]float64, n*n),
		perm: make([]int, n),
		sign: 1,
	}
	for i := range f.perm {
		f.perm[i] = i
	}

	// Fast-path copy for *Dense; generic At otherwise.
	if d, ok := m.(*Dense); ok {
		copy(f.lu, d.data)
	} else {
		var err error
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if f.lu[i*n+j], err = m.At(i, j); err != nil {
					return nil, matrixErrorf(opLU, err)
				}
			}
		}
	}

	a := f.lu
	var i, j, k, p int
	var pivot, big, v, l float64
	for k = 0; k < n; k++ {
		// Pivot search in column k.
		p, big = k, math.Abs(a[k*n+k])
		for i = k + 1; i < n; i++ {
			if v = math.Abs(a[i*n+k]); v > big {
				p, big = i, v
			}
		}
		if big == 0 {
			return nil, matrixErrorf(opLU, fmt.Errorf("column %d: %w", k, ErrSingular))
		}
		if p != k {
			rowK, rowP := a[k*n:(k+1)*n], a[p*n:(p+1)*n]
			for j = 0; j < n; j++ {
				rowK[j], rowP[j] = rowP[j], rowK[j]
			}
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
			f.sign = -f.sign
		}

		pivot = a[k*n+k]
		for i = k + 1; i < n; i++ {
			l = a[i*n+k] / pivot
			a[i*n+k] = l
			if l == 0 {
				continue
			}
			baseI, baseK := i*n, k*n
			for j = k + 1; j < n; j++ {
				a[baseI+j] -= l * a[baseK+j]
			}
		}
	}

	return f, nil
}

// Solve returns x with A·x = b using the stored factors.
// b is not modified.
//
// Implementation:
//   - Stage 1: permute b into y.
//   - Stage 2: forward substitution L·y = Pb (unit diagonal).
//   - Stage 3: backward substitution U·x = y.
//
// Errors:
//   - ErrNilMatrix / ErrDimensionMismatch from ValidateVecLen.
//
// Complexity:
//   - Time O(n^2), Space O(n).
func (f *LUFactors) Solve(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	n, a := f.n, f.lu
	x := make([]float64, n)
	for i, src := range f.perm {
		x[i] = b[src]
	}

	var i, k int
	var sum float64
	for i = 0; i < n; i++ {
		sum = x[i]
		for k = 0; k < i; k++ {
			sum -= a[i*n+k] * x[k]
		}
		x[i] = sum
	}
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= a[i*n+k] * x[k]
		}
		x[i] = sum / a[i*n+i]
	}

	return x, nil
}

// Det returns det(A) as the signed product of the U diagonal.
// Complexity: O(n).
func (f *LUFactors) Det() float64 {
	d := f.sign
	for i := 0; i < f.n; i++ {
		d *= f.lu[i*f.n+i]
	}

	return d
}

// Order returns n, the dimension of the factored system.
func (f *LUFactors) Order() int { return f.n }
