// SPDX-License-Identifier: MIT

package staggered

// Mesh is a rectangular block of control volumes stored row-major:
// cell (x, y) lives at index y*Nx + x, row 0 is the bottom of the cavity.
// PhiOld holds the mesh unknown at the previous time level.
type Mesh struct {
	Nx, Ny int
	PhiOld []float64
}

// NewMesh allocates an nx×ny mesh with a zero previous time level.
// Complexity: O(nx·ny).
func NewMesh(nx, ny int) *Mesh {
	return &Mesh{
		Nx:     nx,
		Ny:     ny,
		PhiOld: make([]float64, nx*ny),
	}
}

// Len returns the number of cells, Nx*Ny.
func (m *Mesh) Len() int {
	return m.Nx * m.Ny
}

// Index maps (x,y) to the row-major index y*Nx + x.
// Complexity: O(1).
func (m *Mesh) Index(x, y int) int {
	return y*m.Nx + x
}

// Coordinate converts a row-major index back to (x,y).
// Complexity: O(1).
func (m *Mesh) Coordinate(i int) (x, y int) {
	return i % m.Nx, i / m.Nx
}

// InBounds reports whether (x,y) lies within the mesh.
func (m *Mesh) InBounds(x, y int) bool {
	return x >= 0 && x < m.Nx && y >= 0 && y < m.Ny
}

// IsLeft reports whether cell i touches the west wall.
func (m *Mesh) IsLeft(i int) bool {
	return i%m.Nx == 0
}

// IsRight reports whether cell i touches the east wall.
func (m *Mesh) IsRight(i int) bool {
	return (i+1)%m.Nx == 0
}

// IsBottom reports whether cell i lies on the bottom row.
func (m *Mesh) IsBottom(i int) bool {
	return (i/m.Nx)%m.Ny == 0
}

// IsTop reports whether cell i lies on the top row (next to the lid).
func (m *Mesh) IsTop(i int) bool {
	return (i/m.Nx+1)%m.Ny == 0
}

// clone deep-copies the mesh including PhiOld.
func (m *Mesh) clone() *Mesh {
	phi := make([]float64, len(m.PhiOld))
	copy(phi, m.PhiOld)

	return &Mesh{Nx: m.Nx, Ny: m.Ny, PhiOld: phi}
}
