// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/cavity/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0) // negative row
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2) // column past the end
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNaNInf verifies the numeric policy on Set and SetColumn.
func TestSetRejectsNaNInf(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(1, 1, math.Inf(1)), matrix.ErrNaNInf)
	require.ErrorIs(t, m.SetColumn(0, []float64{1, math.Inf(-1)}), matrix.ErrNaNInf)
	require.ErrorIs(t, m.SetColumn(0, []float64{1}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.SetColumn(2, []float64{1, 2}), matrix.ErrOutOfRange)
}

// TestSetColumn writes a column and reads it back through the flat buffer.
func TestSetColumn(t *testing.T) {
	m, err := matrix.NewDense(3, 2)
	require.NoError(t, err)

	require.NoError(t, m.SetColumn(1, []float64{4, 5, 6}))
	require.Equal(t, []float64{0, 4, 0, 5, 0, 6}, m.Data())
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 9))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig)
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestNewDenseFrom_Ragged verifies ragged input is refused.
func TestNewDenseFrom_Ragged(t *testing.T) {
	_, err := matrix.NewDenseFrom([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestMatVec checks y = A·x on a 2×3 matrix and the length guard.
func TestMatVec(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	y, err := matrix.MatVec(m, []float64{1, 0, -1})
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -2}, y)

	_, err = matrix.MatVec(m, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	var nilDense *matrix.Dense
	_, err = matrix.MatVec(nilDense, []float64{1})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestNorms covers NormInf and Norm2.
func TestNorms(t *testing.T) {
	x := []float64{3, -4}
	require.Equal(t, 4.0, matrix.NormInf(x))
	require.Equal(t, 5.0, matrix.Norm2(x))
	require.Equal(t, 0.0, matrix.NormInf(nil))
}
