package params

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/edges/internal/tensor"
)

// Xavier returns a rows x cols matrix drawn from the Glorot uniform
// distribution U(-b, b) with b = sqrt(6 / (rows + cols)).
func Xavier(rng *rand.Rand, rows, cols int) *tensor.Matrix {
	bound := math.Sqrt(6.0 / float64(rows+cols))
	return Uniform(rng, rows, cols, bound)
}

// Uniform returns a rows x cols matrix drawn from U(-bound, bound).
func Uniform(rng *rand.Rand, rows, cols int, bound float64) *tensor.Matrix {
	data := make([]float64, rows*cols)
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return tensor.FromSlice(rows, cols, data)
}
