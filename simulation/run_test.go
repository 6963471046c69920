package simulation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/katalvlaran/cavity/newton"
	"github.com/katalvlaran/cavity/residual"
	"github.com/katalvlaran/cavity/simulation"
	"github.com/katalvlaran/cavity/staggered"
	"github.com/stretchr/testify/require"
)

// cavity returns a unit cavity at Re = 10.
func cavity(t *testing.T, n int, dt float64) *staggered.Graph {
	t.Helper()
	g, err := staggered.New(staggered.Params{
		SizeX: 1, SizeY: 1, Nx: n, Ny: n,
		Dt: dt, Rho: 1, Mi: 0.1, BC: 1,
	})
	require.NoError(t, err)

	return g
}

//----------------------------------------------------------------------------//
// Run
//----------------------------------------------------------------------------//

// TestRun_Steps advances three steps and checks bookkeeping, hooks and
// that the caller's graph is left untouched.
func TestRun_Steps(t *testing.T) {
	g := cavity(t, 4, 0.1)
	var seen []int
	res, err := simulation.Run(context.Background(), g,
		simulation.WithSteps(3),
		simulation.WithNewton(newton.WithTol(1e-9)),
		simulation.OnStep(func(s simulation.Step) error {
			seen = append(seen, s.Index)
			require.LessOrEqual(t, s.Residual, 1e-9)
			require.Greater(t, s.Iterations, 0)
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, 3, res.Steps)
	require.InDelta(t, 0.3, res.Time, 1e-12)
	require.False(t, res.Steady)

	// caller's graph still at rest
	for _, v := range g.NSX.PhiOld {
		require.Equal(t, 0.0, v)
	}
	// result graph carries the last velocities
	_, U, V, err := residual.Split(res.X, res.Graph)
	require.NoError(t, err)
	require.Equal(t, U, res.Graph.NSX.PhiOld)
	require.Equal(t, V, res.Graph.NSY.PhiOld)
}

// TestRun_Conservation: with mass satisfied in every cell, the net flux
// through every column of U faces and every row of V faces vanishes, and
// the lid drags the top of the fluid in +x.
func TestRun_Conservation(t *testing.T) {
	g := cavity(t, 4, 0.1)
	res, err := simulation.Run(context.Background(), g,
		simulation.WithSteps(2),
		simulation.WithNewton(newton.WithTol(1e-10)),
	)
	require.NoError(t, err)

	R, err := residual.Function(res.X, res.Graph)
	require.NoError(t, err)
	for k := 0; k < res.Graph.Pressure.Len(); k++ {
		require.InDelta(t, 0.0, R[residual.PIndex(k)], 1e-8, "mass cell %d", k)
	}

	_, U, V, err := residual.Split(res.X, res.Graph)
	require.NoError(t, err)
	nsx, nsy := res.Graph.NSX, res.Graph.NSY
	for x := 0; x < nsx.Nx; x++ {
		sum := 0.0
		for y := 0; y < nsx.Ny; y++ {
			sum += U[nsx.Index(x, y)]
		}
		require.InDelta(t, 0.0, sum, 1e-7, "U column %d", x)
	}
	for y := 0; y < nsy.Ny; y++ {
		sum := 0.0
		for x := 0; x < nsy.Nx; x++ {
			sum += V[nsy.Index(x, y)]
		}
		require.InDelta(t, 0.0, sum, 1e-7, "V row %d", y)
	}
	require.Greater(t, U[nsx.Index(1, nsx.Ny-1)], 0.0)
	lowest := U[nsx.Index(1, 0)]
	for y := 1; y < nsx.Ny; y++ {
		lowest = min(lowest, U[nsx.Index(1, y)])
	}
	require.Less(t, lowest, 0.0, "return flow below the lid")

	// dummies are driven to zero
	for ii, v := range res.X {
		if residual.IsDummy(ii, res.Graph) {
			require.InDelta(t, 0.0, v, 1e-12, "slot %d", ii)
		}
	}
	// pinned pressure level
	require.InDelta(t, 0.0, res.X[residual.PIndex(0)], 1e-12)
}

// TestRun_Backends: both linear solvers produce the same trajectory.
func TestRun_Backends(t *testing.T) {
	run := func(s newton.LinearSolver) []float64 {
		res, err := simulation.Run(context.Background(), cavity(t, 3, 0.1),
			simulation.WithSteps(2),
			simulation.WithNewton(newton.WithTol(1e-11), newton.WithLinearSolver(s)),
		)
		require.NoError(t, err)
		return res.X
	}
	require.InDeltaSlice(t, run(newton.DenseLU{}), run(newton.GonumLU{}), 1e-6)
}

// TestRun_Steady stops early once the velocities stop changing.
func TestRun_Steady(t *testing.T) {
	res, err := simulation.Run(context.Background(), cavity(t, 3, 10),
		simulation.WithSteps(50),
		simulation.StopOnSteady(1e-6),
	)
	require.NoError(t, err)
	require.True(t, res.Steady)
	require.Less(t, res.Steps, 50)
}

// TestRun_FinalTime converts the end time into ceil(t/dt) steps.
func TestRun_FinalTime(t *testing.T) {
	res, err := simulation.Run(context.Background(), cavity(t, 3, 0.1),
		simulation.WithSteps(10),
		simulation.WithFinalTime(0.25),
	)
	require.NoError(t, err)
	require.Equal(t, 3, res.Steps)
}

// TestRun_WarmStart: restarting from a converged state with its own
// time level needs no further Newton update when steady.
func TestRun_WarmStart(t *testing.T) {
	first, err := simulation.Run(context.Background(), cavity(t, 3, 10),
		simulation.WithSteps(50), simulation.StopOnSteady(1e-12))
	require.NoError(t, err)

	var iters []int
	_, err = simulation.Run(context.Background(), first.Graph,
		simulation.WithInitial(first.X),
		simulation.OnStep(func(s simulation.Step) error {
			iters = append(iters, s.Iterations)
			return nil
		}))
	require.NoError(t, err)
	require.Equal(t, []int{0}, iters)
}

//----------------------------------------------------------------------------//
// Errors
//----------------------------------------------------------------------------//

// TestRun_HookAbort returns the hook error with the partial result.
func TestRun_HookAbort(t *testing.T) {
	stop := errors.New("stop")
	res, err := simulation.Run(context.Background(), cavity(t, 3, 0.1),
		simulation.WithSteps(5),
		simulation.OnStep(func(s simulation.Step) error {
			if s.Index == 2 {
				return stop
			}
			return nil
		}),
	)
	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, res.Steps)
}

// TestRun_Errors covers bad inputs and cancellation.
func TestRun_Errors(t *testing.T) {
	_, err := simulation.Run(context.Background(), nil)
	require.ErrorIs(t, err, staggered.ErrNilGraph)

	_, err = simulation.Run(context.Background(), cavity(t, 3, 0.1), simulation.WithInitial([]float64{1}))
	require.ErrorIs(t, err, residual.ErrLengthMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := simulation.Run(ctx, cavity(t, 3, 0.1))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, res.Steps)

	require.Panics(t, func() { simulation.WithSteps(0) })
	require.Panics(t, func() { simulation.WithFinalTime(0) })
	require.Panics(t, func() { simulation.StopOnSteady(-1) })
}
