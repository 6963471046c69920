// SPDX-License-Identifier: MIT

// Package cavity solves the 2D lid-driven cavity problem on a staggered
// (MAC) grid: an incompressible fluid fills a rectangular box whose top
// wall slides with a constant velocity.
//
// What is in the box?
//
//	• staggered/  — pressure and face meshes plus the problem Graph (dt, dx, dy, ρ, μ, lid velocity)
//	• residual/   — the coupled residual function R(X, graph) of mass + Navier–Stokes X/Y
//	• matrix/     — row-major Dense storage and pivoted LU
//	• newton/     — finite-difference Jacobian and Newton iterations
//	• simulation/ — implicit time stepping, cell fields and centreline profiles
//	• store/      — SQLite persistence of runs and steps
//	• config/     — YAML configuration with validation
//	• internal/cli — cobra commands run, residual, profile, runs
//	• cmd/cavity  — command line entry point
//
// Unknown layout:
//
//	X = [P0, U0, V0, P1, U1, V1, …, Pn, Un, Vn]
//
// one triple per pressure cell. U and V carry dummy slots at the end of
// each pressure row (U) and on the last pressure row (V); their residual
// is the unknown itself, so they are driven to zero.
//
// Quick ASCII picture of one pressure cell with its faces:
//
//	      V_n
//	   ┌───↑───┐
//	U_w→   P   →U_e
//	   └───↑───┘
//	      V_s
package cavity
