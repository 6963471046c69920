package residual_test

import (
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/cavity/residual"
	"github.com/katalvlaran/cavity/staggered"
	"github.com/stretchr/testify/require"
)

// newGraph builds a unit cavity with nx×ny pressure cells.
func newGraph(t *testing.T, nx, ny int, dt float64) *staggered.Graph {
	t.Helper()
	g, err := staggered.New(staggered.Params{
		SizeX: 1, SizeY: 1, Nx: nx, Ny: ny,
		Dt: dt, Rho: 1, Mi: 0.01, BC: 1,
	})
	require.NoError(t, err)

	return g
}

//----------------------------------------------------------------------------//
// Hand-computed 2×2 cavity
//----------------------------------------------------------------------------//

// Slot map of the 2×2 cavity (dx = dy = 0.5):
//
//	cell 0: P0 →0  U0 →1  V0 →2
//	cell 1: P1 →3  U* →4  V1 →5
//	cell 2: P2 →6  U1 →7  V* →8
//	cell 3: P3 →9  U* →10 V* →11
//
// (* = dummy slot).

// TestFunction_AtRest: with the fluid at rest only the U face below the lid
// feels the moving wall, through diffusion: R = −μ·dx/dy.
func TestFunction_AtRest(t *testing.T) {
	g := newGraph(t, 2, 2, 0.1)
	X := make([]float64, g.Unknowns())

	R, err := residual.Function(X, g)
	require.NoError(t, err)
	require.Len(t, R, 12)
	for ii, r := range R {
		if ii == 7 {
			require.InDelta(t, -0.01, r, 1e-15)
			continue
		}
		require.Equal(t, 0.0, r, "slot %d", ii)
	}
}

// handX returns the hand-computed state and its expected residual.
func handX(t *testing.T) (*staggered.Graph, []float64, []float64) {
	t.Helper()
	g := newGraph(t, 2, 2, 0.1)
	g.NSX.PhiOld[0] = 0.1
	g.NSY.PhiOld[1] = 0.2

	X := []float64{
		1, 0.2, 0.3, // cell 0
		2, 5, -0.4, // cell 1
		3, -0.1, 7, // cell 2
		4, 6, 8, // cell 3
	}
	want := []float64{
		0.25, 0.7715, 1.8785,
		-0.3, 5, -0.649,
		-0.2, 0.229, 7,
		0.25, 6, 8,
	}

	return g, X, want
}

// TestFunction_HandComputed checks every slot against a hand evaluation
// of the discretization (mass, upwinded advection, diffusion, pressure).
func TestFunction_HandComputed(t *testing.T) {
	g, X, want := handX(t)

	R, err := residual.Function(X, g)
	require.NoError(t, err)
	require.Len(t, R, len(want))
	for ii := range want {
		require.InDelta(t, want[ii], R[ii], 1e-12, "slot %d", ii)
	}
}

//----------------------------------------------------------------------------//
// Reference 4×3 cavity
//----------------------------------------------------------------------------//

// TestFunction_Reference4x3 covers every interior stencil branch: U faces
// with both x neighbours, V faces above the bottom row, NS-Y corners below
// the top row. dx = 0.25, dy = 0.2, both previous levels non-zero, and the
// state mixes signs so both upwind sides are taken. Expected values come
// from the reference residual evaluated on the same inputs.
func TestFunction_Reference4x3(t *testing.T) {
	g, err := staggered.New(staggered.Params{
		SizeX: 1, SizeY: 0.6, Nx: 4, Ny: 3,
		Dt: 0.5, Rho: 1.2, Mi: 0.05, BC: 1.5,
	})
	require.NoError(t, err)
	copy(g.NSX.PhiOld, []float64{0.72, -0.29, -0.74, 0.34, -0.19, -0.8, 1.18, 0.8, -1.02})
	copy(g.NSY.PhiOld, []float64{0.3, 0.1, 1.5, 0.92, -0.85, 1.92, -1.53, -0.33})

	X := []float64{
		-0.7, -1.4, 0.6,
		-1.71, 0.14, -0.54,
		-1.77, 0.03, -1.85,
		-0.27, -1.72, -1.64, // U slot 10 is a dummy
		-0.3, 1.31, -1.5,
		-1.11, 0.51, 1.79,
		0.31, -0.41, 1.91,
		-1.81, 1.43, -0.84, // U slot 22 is a dummy
		-1.42, -1.53, -0.77, // top row: V slots are dummies
		1.26, -1.28, 0.33,
		0.56, -0.51, 0.19,
		-1.75, -1.76, -1.18,
	}
	want := []float64{
		-0.13, -1.099843, 0.562682,
		0.173, -0.067586, -0.322317,
		-0.4845, 0.630462, -0.810546,
		-0.416, -1.72, -0.990644,
		-0.263, 0.741364, -1.4269,
		0.4225, 0.693701, 2.362113,
		0.756, -0.73821, 1.31392,
		0.282, 1.43, -0.757608,
		0.069, -0.133552, -0.77,
		-0.3975, -1.301143, 0.33,
		-0.3235, -0.566018, 0.19,
		0.312, -1.76, -1.18,
	}

	R, err := residual.Function(X, g)
	require.NoError(t, err)
	require.Len(t, R, len(want))
	for ii := range want {
		require.InDelta(t, want[ii], R[ii], 1e-12, "slot %d", ii)
	}
}

// TestFunction_Float32 verifies the single-precision boundary: float32 in,
// float32 out, same values within float32 rounding.
func TestFunction_Float32(t *testing.T) {
	g, X, want := handX(t)
	X32 := make([]float32, len(X))
	for i, v := range X {
		X32[i] = float32(v)
	}

	R, err := residual.Function(X32, g)
	require.NoError(t, err)
	require.IsType(t, []float32{}, R)
	for ii := range want {
		require.InDelta(t, want[ii], float64(R[ii]), 1e-5, "slot %d", ii)
	}
}

// TestFunction_DoesNotMutate ensures inputs survive an evaluation untouched.
func TestFunction_DoesNotMutate(t *testing.T) {
	g, X, _ := handX(t)
	before := append([]float64(nil), X...)
	phiX := append([]float64(nil), g.NSX.PhiOld...)
	phiY := append([]float64(nil), g.NSY.PhiOld...)

	_, err := residual.Function(X, g)
	require.NoError(t, err)
	require.Equal(t, before, X)
	require.Equal(t, phiX, g.NSX.PhiOld)
	require.Equal(t, phiY, g.NSY.PhiOld)
}

//----------------------------------------------------------------------------//
// Structural properties on larger meshes
//----------------------------------------------------------------------------//

// fill returns a deterministic, sign-alternating state of length n.
func fill(n int) []float64 {
	X := make([]float64, n)
	for i := range X {
		X[i] = math.Sin(float64(7*i+3)) * 0.5
	}

	return X
}

// TestFunction_MassBalance: mass residuals telescope, so over the whole
// cavity they sum to zero for any state (walls carry no flux).
func TestFunction_MassBalance(t *testing.T) {
	for _, shape := range [][2]int{{3, 3}, {4, 2}, {5, 7}} {
		g := newGraph(t, shape[0], shape[1], 0.01)
		R, err := residual.Function(fill(g.Unknowns()), g)
		require.NoError(t, err)

		sum := 0.0
		for k := 0; k < g.Pressure.Len(); k++ {
			sum += R[residual.PIndex(k)]
		}
		require.InDelta(t, 0.0, sum, 1e-12, "shape %v", shape)
	}
}

// TestFunction_Dummies: every dummy slot echoes its unknown.
func TestFunction_Dummies(t *testing.T) {
	g := newGraph(t, 4, 3, 0.01)
	X := fill(g.Unknowns())
	R, err := residual.Function(X, g)
	require.NoError(t, err)

	dummies := 0
	for ii := range X {
		if residual.IsDummy(ii, g) {
			dummies++
			require.Equal(t, X[ii], R[ii], "slot %d", ii)
		}
	}
	// one U per pressure row plus one V per top-row cell
	require.Equal(t, 3+4, dummies)
}

// TestInto_MatchesFunction verifies the allocation-free path agrees.
func TestInto_MatchesFunction(t *testing.T) {
	g := newGraph(t, 5, 4, 0.05)
	X := fill(g.Unknowns())

	want, err := residual.Function(X, g)
	require.NoError(t, err)
	dst := make([]float64, len(X))
	require.NoError(t, residual.Into(dst, X, g))
	require.Equal(t, want, dst)
}

//----------------------------------------------------------------------------//
// Errors
//----------------------------------------------------------------------------//

// TestFunction_Errors checks input validation order and sentinels.
func TestFunction_Errors(t *testing.T) {
	g := newGraph(t, 2, 2, 0.1)

	_, err := residual.Function(make([]float64, 11), g)
	require.ErrorIs(t, err, residual.ErrLengthMismatch)
	require.Equal(t, "len(X)=11 len(dst)=11 want 12: residual: vector length does not match graph", err.Error())

	_, err = residual.Function(make([]float32, 12), nil)
	require.ErrorIs(t, err, staggered.ErrNilGraph)

	X := make([]float64, 12)
	X[4] = math.NaN()
	_, err = residual.Function(X, g)
	require.ErrorIs(t, err, residual.ErrNonFinite)
	require.Equal(t, 1, strings.Count(err.Error(), "residual:"), err.Error())

	X[4] = math.Inf(-1)
	_, err = residual.Function(X, g)
	require.ErrorIs(t, err, residual.ErrNonFinite)

	require.ErrorIs(t, residual.Into(make([]float64, 3), make([]float64, 12), g), residual.ErrLengthMismatch)
}
