// SPDX-License-Identifier: MIT

package residual

import (
	"fmt"

	"github.com/katalvlaran/cavity/staggered"
)

// PIndex returns the slot of the pressure of cell k in the interleaved vector.
func PIndex(k int) int { return 3 * k }

// UIndex returns the slot of U face k (NSX mesh index). Each pressure row
// owns one more slot than it has interior faces, so row j shifts by j.
func UIndex(k int, g *staggered.Graph) int {
	return 3*(k+k/g.NSX.Nx) + 1
}

// VIndex returns the slot of V face k (NSY mesh index). The NSY mesh has
// the same row width as the pressure mesh, so no shift is needed.
func VIndex(k int) int { return 3*k + 2 }

// IsDummy reports whether slot ii carries no equation: the last U of every
// pressure row and every V of the top pressure row.
func IsDummy(ii int, g *staggered.Graph) bool {
	cell, field := ii/3, ii%3
	switch field {
	case 1:
		return g.Pressure.IsRight(cell)
	case 2:
		return cell >= g.NSY.Len()
	default:
		return false
	}
}

// view reads the three unknown families out of an interleaved vector
// without copying.
type view struct {
	x   []float64
	nxU int
}

func (v view) p(k int) float64 { return v.x[3*k] }
func (v view) u(k int) float64 { return v.x[3*(k+k/v.nxU)+1] }
func (v view) v(k int) float64 { return v.x[3*k+2] }

// Split extracts the pressure, U and V vectors from X. Dummy slots are dropped.
// Returns ErrLengthMismatch when len(X) != g.Unknowns().
func Split(X []float64, g *staggered.Graph) (P, U, V []float64, err error) {
	if err = g.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("split: %w", err)
	}
	if len(X) != g.Unknowns() {
		return nil, nil, nil, fmt.Errorf("split: len(X)=%d want %d: %w", len(X), g.Unknowns(), ErrLengthMismatch)
	}
	vw := view{x: X, nxU: g.NSX.Nx}
	P = make([]float64, g.Pressure.Len())
	U = make([]float64, g.NSX.Len())
	V = make([]float64, g.NSY.Len())
	for k := range P {
		P[k] = vw.p(k)
	}
	for k := range U {
		U[k] = vw.u(k)
	}
	for k := range V {
		V[k] = vw.v(k)
	}

	return P, U, V, nil
}

// Join is the inverse of Split: it interleaves P, U and V into a fresh X
// with zero dummy slots.
func Join(P, U, V []float64, g *staggered.Graph) ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	if len(P) != g.Pressure.Len() || len(U) != g.NSX.Len() || len(V) != g.NSY.Len() {
		return nil, fmt.Errorf("join: lengths P=%d U=%d V=%d: %w", len(P), len(U), len(V), ErrLengthMismatch)
	}
	X := make([]float64, g.Unknowns())
	for k, p := range P {
		X[PIndex(k)] = p
	}
	for k, u := range U {
		X[UIndex(k, g)] = u
	}
	for k, v := range V {
		X[VIndex(k)] = v
	}

	return X, nil
}
