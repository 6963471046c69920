package matrix_test

import (
	"testing"

	"github.com/katalvlaran/cavity/matrix"
	"github.com/stretchr/testify/require"
)

// TestLU_NeedsPivot: a zero leading entry defeats plain Doolittle but not
// partial pivoting.
func TestLU_NeedsPivot(t *testing.T) {
	A, err := matrix.NewDenseFrom([][]float64{
		{0, 1},
		{1, 0},
	})
	require.NoError(t, err)

	f, err := matrix.LU(A)
	require.NoError(t, err)
	require.InDelta(t, -1.0, f.Det(), 1e-15)

	x, err := f.Solve([]float64{2, 3})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{3, 2}, x, 1e-15)
}

// TestLU_SolveResidual solves a 4×4 system and checks A·x = b.
func TestLU_SolveResidual(t *testing.T) {
	A, err := matrix.NewDenseFrom([][]float64{
		{2, -1, 0, 3},
		{1, 4, -2, 0},
		{0, 3, 5, 1},
		{-2, 0, 1, 6},
	})
	require.NoError(t, err)
	b := []float64{1, -2, 3, 4}

	f, err := matrix.LU(A)
	require.NoError(t, err)
	require.Equal(t, 4, f.Order())
	x, err := f.Solve(b)
	require.NoError(t, err)

	Ax, err := matrix.MatVec(A, x)
	require.NoError(t, err)
	require.InDeltaSlice(t, b, Ax, 1e-12)

	// A and b are untouched
	a00, _ := A.At(0, 0)
	require.Equal(t, 2.0, a00)
	require.Equal(t, []float64{1, -2, 3, 4}, b)
}

// TestLU_Det checks the determinant of a known matrix.
func TestLU_Det(t *testing.T) {
	A, err := matrix.NewDenseFrom([][]float64{
		{1, 2, 3},
		{0, 1, 4},
		{5, 6, 0},
	})
	require.NoError(t, err)

	f, err := matrix.LU(A)
	require.NoError(t, err)
	require.InDelta(t, 1.0, f.Det(), 1e-12)
}

// TestLU_Errors verifies singular, non-square and nil inputs.
func TestLU_Errors(t *testing.T) {
	S, err := matrix.NewDenseFrom([][]float64{
		{1, 2},
		{2, 4},
	})
	require.NoError(t, err)
	_, err = matrix.LU(S)
	require.ErrorIs(t, err, matrix.ErrSingular)

	R, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = matrix.LU(R)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = matrix.LU(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	I, err := matrix.NewDenseFrom([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	f, err := matrix.LU(I)
	require.NoError(t, err)
	_, err = f.Solve([]float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
