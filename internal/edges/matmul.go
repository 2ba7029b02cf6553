package edges

import "github.com/born-ml/edges/internal/tensor"

// MatrixMultiply creates y = x_a · x_b.
//
// Backward:
//   - dE/dx_a = dEdf · x_bᵗ
//   - dE/dx_b = x_aᵗ · dEdf
func MatrixMultiply(a, b int) *Edge {
	return binary(KindMatrixMultiply, a, b)
}

func forwardMatrixMultiply(xs []*tensor.Matrix) *tensor.Matrix {
	return xs[0].Mul(xs[1])
}

func backwardMatrixMultiply(xs []*tensor.Matrix, dEdf *tensor.Matrix, i int) *tensor.Matrix {
	if i == 0 {
		return dEdf.Mul(xs[1].T())
	}
	return xs[0].T().Mul(dEdf)
}
