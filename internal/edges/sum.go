package edges

import (
	"strings"

	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// Sum creates y = Σ_i x_i over one or more inputs of the same shape.
// The gradient flows unchanged to every input.
func Sum(xs ...int) *Edge {
	if len(xs) == 0 {
		panic(errors.Wrap(ErrArity, "sum: needs at least one input"))
	}
	return &Edge{kind: KindSum, tail: append([]int(nil), xs...)}
}

func forwardSum(xs []*tensor.Matrix) *tensor.Matrix {
	res := xs[0].Clone()
	for _, x := range xs[1:] {
		res.AddInPlace(x)
	}
	return res
}

func backwardSum(dEdf *tensor.Matrix) *tensor.Matrix {
	return dEdf.Clone()
}

func renderSum(argNames []string) string {
	return strings.Join(argNames, " + ")
}
