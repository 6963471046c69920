// SPDX-License-Identifier: MIT

// Package residual evaluates the coupled residual of the lid-driven cavity
// equations on a staggered grid.
//
// Function(X, graph) is the entry point: X is the interleaved unknown
// vector [P0, U0, V0, …, Pn, Un, Vn] and graph is the *staggered.Graph
// describing meshes, constants and the previous time level. The result
// has the same length and layout as X:
//
//	R[3i]   conservation of mass for pressure cell i
//	R[3i+1] Navier–Stokes X for the U face stored in slot i (dummy → X[3i+1])
//	R[3i+2] Navier–Stokes Y for the V face stored in slot i (dummy → X[3i+2])
//
// Discretization:
//
//   - Finite volumes, implicit Euler in time.
//   - Face velocities by arithmetic mean, advection upwind-weighted with
//     β = ±½ chosen by the sign of the face velocity, diffusion central.
//   - Velocities on walls are zero; the lid supplies BC along the top.
//
// Complexity: O(nx·ny) time, O(1) extra memory for Into, O(nx·ny) for Function.
package residual
