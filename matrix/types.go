// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear algebra behind the Newton
// solver: row-major storage, LU factorization with partial pivoting and
// a few vector kernels.
//
// Determinism & Policy:
//   - Fixed loop orders everywhere; identical inputs give identical bits.
//   - Set rejects NaN/Inf by default; kernels report ErrSingular instead of
//     producing Inf.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}
