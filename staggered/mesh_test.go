package staggered_test

import (
	"testing"

	"github.com/katalvlaran/cavity/staggered"
	"github.com/stretchr/testify/require"
)

// TestMesh_IndexCoordinate checks the row-major mapping both ways on a 4×3 mesh.
func TestMesh_IndexCoordinate(t *testing.T) {
	m := staggered.NewMesh(4, 3)
	require.Equal(t, 12, m.Len())
	for i := 0; i < m.Len(); i++ {
		x, y := m.Coordinate(i)
		require.True(t, m.InBounds(x, y))
		require.Equal(t, i, m.Index(x, y))
	}
	require.False(t, m.InBounds(-1, 0))
	require.False(t, m.InBounds(4, 0))
	require.False(t, m.InBounds(0, 3))
}

// TestMesh_Boundaries checks the wall predicates on a 3×3 mesh:
//
//	6 7 8   ← top
//	3 4 5
//	0 1 2   ← bottom
func TestMesh_Boundaries(t *testing.T) {
	m := staggered.NewMesh(3, 3)

	left := map[int]bool{0: true, 3: true, 6: true}
	right := map[int]bool{2: true, 5: true, 8: true}
	bottom := map[int]bool{0: true, 1: true, 2: true}
	top := map[int]bool{6: true, 7: true, 8: true}
	for i := 0; i < m.Len(); i++ {
		require.Equal(t, left[i], m.IsLeft(i), "left %d", i)
		require.Equal(t, right[i], m.IsRight(i), "right %d", i)
		require.Equal(t, bottom[i], m.IsBottom(i), "bottom %d", i)
		require.Equal(t, top[i], m.IsTop(i), "top %d", i)
	}
}

// TestMesh_SingleColumn: a one-wide mesh is both left and right everywhere.
func TestMesh_SingleColumn(t *testing.T) {
	m := staggered.NewMesh(1, 2)
	for i := 0; i < m.Len(); i++ {
		require.True(t, m.IsLeft(i))
		require.True(t, m.IsRight(i))
	}
	require.True(t, m.IsBottom(0))
	require.True(t, m.IsTop(1))
}
