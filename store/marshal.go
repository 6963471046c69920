// SPDX-License-Identifier: MIT

package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeVector packs x as little-endian IEEE-754 float64 values.
func encodeVector(x []float64) []byte {
	b := make([]byte, 8*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}

	return b
}

// decodeVector is the inverse of encodeVector.
func decodeVector(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("store: vector blob of %d bytes is not a multiple of 8", len(b))
	}
	x := make([]float64, len(b)/8)
	for i := range x {
		x[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}

	return x, nil
}
