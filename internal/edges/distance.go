package edges

import "github.com/born-ml/edges/internal/tensor"

// SquaredEuclideanDistance creates the scalar y = ||x_a - x_b||².
//
// Backward:
//   - dE/dx_a = 2 · dEdf · (x_a - x_b)
//   - dE/dx_b = -2 · dEdf · (x_a - x_b)
func SquaredEuclideanDistance(a, b int) *Edge {
	return binary(KindSquaredEuclideanDistance, a, b)
}

func forwardSquaredDistance(xs []*tensor.Matrix) *tensor.Matrix {
	return tensor.Scalar(xs[0].Sub(xs[1]).SquaredNorm())
}

func backwardSquaredDistance(xs []*tensor.Matrix, dEdf *tensor.Matrix, i int) *tensor.Matrix {
	scale := dEdf.At(0, 0) * 2
	if i == 1 {
		scale = -scale
	}
	return xs[0].Sub(xs[1]).Scale(scale)
}
