// SPDX-License-Identifier: MIT

package residual

import "errors"

var (
	// ErrLengthMismatch indicates X (or dst) is not 3·nx·ny long.
	ErrLengthMismatch = errors.New("residual: vector length does not match graph")
	// ErrNonFinite indicates a NaN or ±Inf entry in X.
	ErrNonFinite = errors.New("residual: NaN or Inf in unknowns")
)
