package edges

import (
	"math"

	"github.com/born-ml/edges/internal/tensor"
)

// LogisticSigmoid creates the elementwise y = σ(x) = 1 / (1 + exp(-x)).
//
// Backward reuses the cached output: dE/dx = y · (1 - y) · dEdf.
func LogisticSigmoid(x int) *Edge {
	return unary(KindLogisticSigmoid, x)
}

func forwardSigmoid(xs []*tensor.Matrix) *tensor.Matrix {
	return xs[0].Apply(sigmoid)
}

// sigmoid never evaluates exp of a positive argument, so it cannot overflow.
// For |x| beyond about 37 the result rounds to exactly 0 or 1.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	z := math.Exp(x)
	return z / (1 + z)
}

func backwardSigmoid(fx, dEdf *tensor.Matrix) *tensor.Matrix {
	return fx.ZipApply(dEdf, func(y, g float64) float64 {
		return y * (1 - y) * g
	})
}
