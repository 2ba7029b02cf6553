package edges

import "github.com/born-ml/edges/internal/tensor"

// Square creates the elementwise y = x ⊙ x.
//
// Backward: dE/dx = 2 · x · dEdf.
func Square(x int) *Edge {
	return unary(KindSquare, x)
}

func forwardSquare(xs []*tensor.Matrix) *tensor.Matrix {
	return xs[0].CwiseProduct(xs[0])
}

func backwardSquare(xs []*tensor.Matrix, dEdf *tensor.Matrix) *tensor.Matrix {
	return xs[0].ZipApply(dEdf, func(x, g float64) float64 {
		return 2 * x * g
	})
}
