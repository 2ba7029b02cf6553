package edges

import (
	"math"

	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// PickElement creates the scalar y = x[index], where x is a column vector and
// index is a 1x1 matrix holding a non-negative integral row number.
// Combined with LogSoftmax it yields the cross-entropy loss of one example.
//
// Backward w.r.t. x is zero everywhere except dEdf at the selected row.
// The edge is not differentiable w.r.t. the index.
func PickElement(x, index int) *Edge {
	return binary(KindPickElement, x, index)
}

func forwardPickElement(e *Edge, xs []*tensor.Matrix) *tensor.Matrix {
	x := xs[0]
	mustColumnVector(e, x)
	row := pickIndex(e, xs[1], x.Rows())
	return tensor.Scalar(x.At(row, 0))
}

// TODO: return a sparse gradient once accumulation in the executor accepts one.
func backwardPickElement(e *Edge, xs []*tensor.Matrix, dEdf *tensor.Matrix) *tensor.Matrix {
	x := xs[0]
	mustColumnVector(e, x)
	row := pickIndex(e, xs[1], x.Rows())
	dEdx := tensor.New(x.Dim())
	dEdx.Set(row, 0, dEdf.At(0, 0))
	return dEdx
}

// pickIndex decodes the 1x1 index matrix and checks it against rows.
func pickIndex(e *Edge, index *tensor.Matrix, rows int) int {
	if !index.Dim().IsScalar() {
		panic(errors.Wrapf(tensor.ErrDimMismatch, "%s: index is %s, want {1,1}", e.kind, index.Dim()))
	}
	v := index.At(0, 0)
	if v < 0 || v != math.Trunc(v) || v >= float64(rows) {
		panic(errors.Wrapf(tensor.ErrIndexOutOfRange, "%s: index %g for %d rows", e.kind, v, rows))
	}
	return int(v)
}
