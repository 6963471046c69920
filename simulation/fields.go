// SPDX-License-Identifier: MIT

package simulation

import (
	"fmt"

	"github.com/katalvlaran/cavity/residual"
	"github.com/katalvlaran/cavity/staggered"
)

// Fields holds cell-centred values indexed [y][x], row 0 at the bottom.
type Fields struct {
	Nx, Ny int
	Dx, Dy float64
	Lid    float64
	U, V   [][]float64 // face averages; wall faces count as zero
	P      [][]float64

	faceU []float64 // NSX faces, (Nx-1)×Ny row-major
	faceV []float64 // NSY faces, Nx×(Ny-1) row-major
}

// ProfilePoint is one sample of a centreline profile.
type ProfilePoint struct {
	Pos   float64 `json:"pos"`
	Value float64 `json:"value"`
}

// NewFields interpolates X onto pressure cell centres.
func NewFields(X []float64, g *staggered.Graph) (*Fields, error) {
	P, U, V, err := residual.Split(X, g)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	pm, nsx := g.Pressure, g.NSX
	f := &Fields{
		Nx: pm.Nx, Ny: pm.Ny,
		Dx: g.Dx, Dy: g.Dy,
		Lid: g.BC,
		U:   grid(pm.Nx, pm.Ny),
		V:   grid(pm.Nx, pm.Ny),
		P:   grid(pm.Nx, pm.Ny),

		faceU: U,
		faceV: V,
	}
	for i := 0; i < pm.Len(); i++ {
		x, y := pm.Coordinate(i)
		var uw, ue, vs, vn float64
		if !pm.IsLeft(i) {
			uw = U[nsx.Index(x-1, y)]
		}
		if !pm.IsRight(i) {
			ue = U[nsx.Index(x, y)]
		}
		if !pm.IsBottom(i) {
			vs = V[i-pm.Nx]
		}
		if !pm.IsTop(i) {
			vn = V[i]
		}
		f.U[y][x] = (uw + ue) / 2
		f.V[y][x] = (vs + vn) / 2
		f.P[y][x] = P[i]
	}

	return f, nil
}

func grid(nx, ny int) [][]float64 {
	rows := make([][]float64, ny)
	for y := range rows {
		rows[y] = make([]float64, nx)
	}

	return rows
}

// CenterlineU samples U along the vertical line x = L/2, bottom wall (U=0)
// to lid (U=Lid). With an even Nx the line runs along a column of U faces,
// which are taken as they are; with an odd Nx it crosses cell centres.
func (f *Fields) CenterlineU() []ProfilePoint {
	out := make([]ProfilePoint, 0, f.Ny+2)
	out = append(out, ProfilePoint{Pos: 0, Value: 0})
	for y := 0; y < f.Ny; y++ {
		v := f.U[y][f.Nx/2]
		if f.Nx%2 == 0 {
			v = f.faceU[y*(f.Nx-1)+f.Nx/2-1]
		}
		out = append(out, ProfilePoint{Pos: (float64(y) + 0.5) * f.Dy, Value: v})
	}

	return append(out, ProfilePoint{Pos: float64(f.Ny) * f.Dy, Value: f.Lid})
}

// CenterlineV samples V along the horizontal line y = H/2, west wall to
// east wall (both V=0). With an even Ny the line runs along a row of V
// faces; with an odd Ny it crosses cell centres.
func (f *Fields) CenterlineV() []ProfilePoint {
	out := make([]ProfilePoint, 0, f.Nx+2)
	out = append(out, ProfilePoint{Pos: 0, Value: 0})
	for x := 0; x < f.Nx; x++ {
		v := f.V[f.Ny/2][x]
		if f.Ny%2 == 0 {
			v = f.faceV[(f.Ny/2-1)*f.Nx+x]
		}
		out = append(out, ProfilePoint{Pos: (float64(x) + 0.5) * f.Dx, Value: v})
	}

	return append(out, ProfilePoint{Pos: float64(f.Nx) * f.Dx, Value: 0})
}
