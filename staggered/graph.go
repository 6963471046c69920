// SPDX-License-Identifier: MIT

package staggered

import (
	"fmt"
	"math"
)

// Params describes a cavity and its discretization.
//   - SizeX, SizeY: cavity width and height.
//   - Nx, Ny: pressure cells per row and number of rows (both ≥ 2).
//   - Dt: time step; Rho: density; Mi: dynamic viscosity.
//   - BC: velocity of the lid (top wall), in +x direction.
type Params struct {
	SizeX, SizeY float64
	Nx, Ny       int
	Dt           float64
	Rho          float64
	Mi           float64
	BC           float64
}

// Graph is the discretized cavity: three staggered meshes plus the
// physical constants used by the residual. It is mutated only through
// PhiOld when a time stepper advances; use Clone to keep a snapshot.
type Graph struct {
	Pressure *Mesh // nx × ny cell centres
	NSX      *Mesh // (nx-1) × ny vertical faces, unknown U
	NSY      *Mesh // nx × (ny-1) horizontal faces, unknown V

	Dt, Dx, Dy float64
	Rho, Mi    float64
	BC         float64
}

// New validates p and builds the staggered meshes with zero initial state.
// Dx = SizeX/Nx and Dy = SizeY/Ny.
// Returns ErrInvalidParams (wrapped with the offending field) on bad input.
// Complexity: O(Nx·Ny) time and memory.
func New(p Params) (*Graph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	return &Graph{
		Pressure: NewMesh(p.Nx, p.Ny),
		NSX:      NewMesh(p.Nx-1, p.Ny),
		NSY:      NewMesh(p.Nx, p.Ny-1),
		Dt:       p.Dt,
		Dx:       p.SizeX / float64(p.Nx),
		Dy:       p.SizeY / float64(p.Ny),
		Rho:      p.Rho,
		Mi:       p.Mi,
		BC:       p.BC,
	}, nil
}

func (p Params) validate() error {
	if p.Nx < 2 || p.Ny < 2 {
		return fmt.Errorf("mesh %dx%d: %w", p.Nx, p.Ny, ErrInvalidParams)
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"size_x", p.SizeX},
		{"size_y", p.SizeY},
		{"dt", p.Dt},
		{"rho", p.Rho},
		{"mi", p.Mi},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s=%v: %w", f.name, f.v, ErrInvalidParams)
		}
	}
	if math.IsNaN(p.BC) || math.IsInf(p.BC, 0) {
		return fmt.Errorf("bc=%v: %w", p.BC, ErrInvalidParams)
	}

	return nil
}

// Unknowns returns the length of the interleaved unknown vector, 3·nx·ny.
func (g *Graph) Unknowns() int {
	return 3 * g.Pressure.Len()
}

// Validate checks that the three meshes fit the staggered layout and that
// the constants are usable. It is cheap and called by the residual on
// every evaluation.
func (g *Graph) Validate() error {
	if g == nil {
		return ErrNilGraph
	}
	if g.Pressure == nil || g.NSX == nil || g.NSY == nil {
		return fmt.Errorf("missing mesh: %w", ErrMeshMismatch)
	}
	nx, ny := g.Pressure.Nx, g.Pressure.Ny
	if nx < 2 || ny < 2 {
		return fmt.Errorf("pressure mesh %dx%d: %w", nx, ny, ErrInvalidParams)
	}
	if g.NSX.Nx != nx-1 || g.NSX.Ny != ny {
		return fmt.Errorf("ns_x mesh %dx%d for pressure %dx%d: %w", g.NSX.Nx, g.NSX.Ny, nx, ny, ErrMeshMismatch)
	}
	if g.NSY.Nx != nx || g.NSY.Ny != ny-1 {
		return fmt.Errorf("ns_y mesh %dx%d for pressure %dx%d: %w", g.NSY.Nx, g.NSY.Ny, nx, ny, ErrMeshMismatch)
	}
	if len(g.NSX.PhiOld) != g.NSX.Len() || len(g.NSY.PhiOld) != g.NSY.Len() {
		return fmt.Errorf("phi_old length: %w", ErrMeshMismatch)
	}
	if !(g.Dt > 0) || !(g.Dx > 0) || !(g.Dy > 0) {
		return fmt.Errorf("dt=%v dx=%v dy=%v: %w", g.Dt, g.Dx, g.Dy, ErrInvalidParams)
	}

	return nil
}

// Clone returns a deep copy; the copy's PhiOld slices are independent.
func (g *Graph) Clone() *Graph {
	c := *g
	c.Pressure = g.Pressure.clone()
	c.NSX = g.NSX.clone()
	c.NSY = g.NSY.clone()

	return &c
}

// Params reconstructs the parameters the graph was built from.
func (g *Graph) Params() Params {
	return Params{
		SizeX: g.Dx * float64(g.Pressure.Nx),
		SizeY: g.Dy * float64(g.Pressure.Ny),
		Nx:    g.Pressure.Nx,
		Ny:    g.Pressure.Ny,
		Dt:    g.Dt,
		Rho:   g.Rho,
		Mi:    g.Mi,
		BC:    g.BC,
	}
}

// Reynolds returns ρ·BC·SizeX/μ, the Reynolds number of the lid flow.
func (g *Graph) Reynolds() float64 {
	return g.Rho * g.BC * g.Dx * float64(g.Pressure.Nx) / g.Mi
}
