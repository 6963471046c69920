// SPDX-License-Identifier: MIT

// Package staggered describes the staggered (MAC) discretization of a
// rectangular cavity: one pressure mesh of cell centres and two face
// meshes carrying the velocity components.
//
// What:
//
//   - Mesh is a row-major block of control volumes with boundary predicates.
//   - Graph bundles the three meshes with the physical constants (dt, dx,
//     dy, ρ, μ) and the lid velocity of the top wall.
//   - Graph is the object handed to residual.Function next to the unknown
//     vector X; it carries the previous time level in Mesh.PhiOld.
//
// Layout for an nx×ny pressure mesh:
//
//	Pressure: nx   × ny     (cell centres)
//	NSX:      nx-1 × ny     (interior vertical faces, unknown U)
//	NSY:      nx   × ny-1   (interior horizontal faces, unknown V)
//
// Complexity:
//
//   - New:   O(nx·ny) time and memory.
//   - Clone: O(nx·ny).
//   - Mesh predicates and index conversions: O(1).
//
// Errors:
//
//   - ErrInvalidParams: non-positive or non-finite parameters, or a mesh under 2×2.
//   - ErrNilGraph: nil *Graph passed where one is required.
//   - ErrMeshMismatch: mesh shapes or PhiOld lengths disagree with the pressure mesh.
package staggered
