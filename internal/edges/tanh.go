package edges

import (
	"math"

	"github.com/born-ml/edges/internal/tensor"
)

// Tanh creates the elementwise y = tanh(x).
//
// Backward reuses the cached output: dE/dx = (1 - y²) · dEdf.
func Tanh(x int) *Edge {
	return unary(KindTanh, x)
}

func forwardTanh(xs []*tensor.Matrix) *tensor.Matrix {
	return xs[0].Apply(math.Tanh)
}

func backwardTanh(fx, dEdf *tensor.Matrix) *tensor.Matrix {
	return fx.ZipApply(dEdf, func(y, g float64) float64 {
		return (1 - y*y) * g
	})
}
