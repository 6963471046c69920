// SPDX-License-Identifier: MIT

package matrix

import "math"

// MatVec computes y = m·x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols()).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	r, c := m.Rows(), m.Cols()
	y := make([]float64, r)
	if d, ok := m.(*Dense); ok {
		for i := 0; i < r; i++ {
			row := d.data[i*c : (i+1)*c]
			var sum float64
			for j, v := range row {
				sum += v * x[j]
			}
			y[i] = sum
		}

		return y, nil
	}

	for i := 0; i < r; i++ {
		var sum float64
		for j := 0; j < c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// NormInf returns max_i |x_i|; 0 for an empty vector.
func NormInf(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}

	return m
}

// Norm2 returns the Euclidean norm of x.
func Norm2(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum)
}
