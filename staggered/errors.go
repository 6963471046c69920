// SPDX-License-Identifier: MIT

package staggered

import "errors"

var (
	// ErrInvalidParams indicates a Params value that cannot describe a cavity.
	ErrInvalidParams = errors.New("staggered: invalid parameters")
	// ErrNilGraph indicates a nil *Graph.
	ErrNilGraph = errors.New("staggered: graph is nil")
	// ErrMeshMismatch indicates meshes whose shapes do not fit together.
	ErrMeshMismatch = errors.New("staggered: mesh shapes do not match")
)
