package edges

import (
	"math"

	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// LogSoftmax creates y_i = x_i - log Σ_j exp(x_j) over a column vector.
//
// The normalizer is evaluated as m + log Σ_j exp(x_j - m) with m = max_j x_j,
// which is the same value but does not overflow for large inputs.
//
// Backward:
//
//	dE/dx_i = dEdf_i - exp(y_i) · Σ_j dEdf_j
func LogSoftmax(x int) *Edge {
	return unary(KindLogSoftmax, x)
}

func forwardLogSoftmax(e *Edge, xs []*tensor.Matrix) *tensor.Matrix {
	x := xs[0]
	mustColumnVector(e, x)
	data := x.Data()

	maxVal := data[0]
	for _, v := range data[1:] {
		maxVal = math.Max(maxVal, v)
	}
	z := 0.0
	for _, v := range data {
		z += math.Exp(v - maxVal)
	}
	logZ := maxVal + math.Log(z)

	return x.Apply(func(v float64) float64 {
		return v - logZ
	})
}

func backwardLogSoftmax(fx, dEdf *tensor.Matrix) *tensor.Matrix {
	gradSum := dEdf.Sum()
	return fx.ZipApply(dEdf, func(y, g float64) float64 {
		return g - math.Exp(y)*gradSum
	})
}

func mustColumnVector(e *Edge, x *tensor.Matrix) {
	if !x.Dim().IsColumnVector() {
		panic(errors.Wrapf(tensor.ErrDimMismatch, "%s: input %s is not a column vector", e.kind, x.Dim()))
	}
}
