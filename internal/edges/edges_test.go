package edges_test

import (
	"math"
	"testing"

	"github.com/born-ml/edges/internal/edges"
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ms is shorthand for an input list.
func ms(xs ...*tensor.Matrix) []*tensor.Matrix {
	return xs
}

// catch runs fn and returns the error it panicked with, if any.
func catch(fn func()) error {
	return exceptions.TryCatch[error](fn)
}

// TestMatrixMultiply_Identity covers x1 · I = x1 and dE/dx1 = ones · Iᵗ.
func TestMatrixMultiply_Identity(t *testing.T) {
	e := edges.MatrixMultiply(0, 1)
	x1 := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	x2 := tensor.Identity(2)

	fx := e.Forward(nil, ms(x1, x2))
	assert.True(t, fx.Equal(x1), "forward: got %v", fx)

	dEdf := tensor.Ones(2, 2)
	grad := e.Backward(ms(x1, x2), fx, dEdf, 0)
	assert.True(t, grad.Equal(tensor.Ones(2, 2)), "backward: got %v", grad)
}

func TestMatrixMultiply_Backward(t *testing.T) {
	// A = [[1, 2],    B = [[5, 6],
	//      [3, 4]]         [7, 8]]
	e := edges.MatrixMultiply(0, 1)
	a := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	b := tensor.FromRows([][]float64{{5, 6}, {7, 8}})
	fx := e.Forward(nil, ms(a, b))
	assert.Equal(t, []float64{19, 22, 43, 50}, fx.Data())

	dEdf := tensor.Ones(2, 2)
	// dA = dEdf @ B^T = [[11, 15], [11, 15]]
	assert.Equal(t, []float64{11, 15, 11, 15}, e.Backward(ms(a, b), fx, dEdf, 0).Data())
	// dB = A^T @ dEdf = [[4, 4], [6, 6]]
	assert.Equal(t, []float64{4, 4, 6, 6}, e.Backward(ms(a, b), fx, dEdf, 1).Data())
}

func TestMatrixMultiply_ShapeViolation(t *testing.T) {
	e := edges.MatrixMultiply(0, 1)
	err := catch(func() { e.Forward(nil, ms(tensor.Ones(2, 3), tensor.Ones(2, 3))) })
	require.ErrorIs(t, err, tensor.ErrDimMismatch)
}

func TestSum(t *testing.T) {
	a := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	b := tensor.FromRows([][]float64{{0.5, 0.5}, {-1, 2}})
	c := tensor.FromRows([][]float64{{10, 20}, {30, 40}})

	t.Run("single input is identity", func(t *testing.T) {
		fx := edges.Sum(0).Forward(nil, ms(a))
		assert.True(t, fx.Equal(a))
	})

	t.Run("order does not matter", func(t *testing.T) {
		e := edges.Sum(0, 1, 2)
		abc := e.Forward(nil, ms(a, b, c))
		cab := e.Forward(nil, ms(c, a, b))
		assert.True(t, abc.EqualApprox(cab, 1e-12))
		assert.Equal(t, []float64{11.5, 22.5, 32, 46}, abc.Data())
	})

	t.Run("backward passes dEdf through", func(t *testing.T) {
		e := edges.Sum(0, 1, 2)
		xs := ms(a, b, c)
		fx := e.Forward(nil, xs)
		dEdf := tensor.FromRows([][]float64{{1, -1}, {2, 0}})
		for i := range xs {
			assert.True(t, e.Backward(xs, fx, dEdf, i).Equal(dEdf), "input %d", i)
		}
	})

	t.Run("mismatched shapes", func(t *testing.T) {
		err := catch(func() { edges.Sum(0, 1).Forward(nil, ms(a, tensor.Ones(2, 1))) })
		require.ErrorIs(t, err, tensor.ErrDimMismatch)
	})

	t.Run("no inputs", func(t *testing.T) {
		require.ErrorIs(t, catch(func() { edges.Sum() }), edges.ErrArity)
	})
}

func TestSquaredEuclideanDistance(t *testing.T) {
	e := edges.SquaredEuclideanDistance(0, 1)
	a := tensor.ColumnVector(1, 2, 3)
	b := tensor.ColumnVector(0, 4, 3)

	assert.Equal(t, 0.0, e.Forward(nil, ms(a, a)).At(0, 0))

	fx := e.Forward(nil, ms(a, b))
	assert.Equal(t, tensor.NewDim(1, 1), fx.Dim())
	assert.Equal(t, 5.0, fx.At(0, 0))

	dEdf := tensor.Scalar(0.5)
	g0 := e.Backward(ms(a, b), fx, dEdf, 0)
	g1 := e.Backward(ms(a, b), fx, dEdf, 1)
	assert.Equal(t, []float64{1, -2, 0}, g0.Data())
	assert.True(t, g0.Equal(g1.Scale(-1)))
}

func TestLogisticSigmoid(t *testing.T) {
	e := edges.LogisticSigmoid(0)
	x := tensor.FromRows([][]float64{{-30, -1, 0}, {0.5, 2, 30}})
	fx := e.Forward(nil, ms(x))

	for _, v := range fx.Data() {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, 0.5, fx.At(0, 2))

	dEdf := tensor.FromRows([][]float64{{1, 2, 3}, {-1, 0.5, 2}})
	grad := e.Backward(ms(x), fx, dEdf, 0)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			f := fx.At(i, j)
			assert.Equal(t, f*(1-f)*dEdf.At(i, j), grad.At(i, j))
		}
	}
}

func TestLogisticSigmoid_Range(t *testing.T) {
	e := edges.LogisticSigmoid(0)

	// Strictly inside (0, 1) while float64 can represent it.
	fx := e.Forward(nil, ms(tensor.ColumnVector(-30, -1, 0, 1, 30)))
	for _, v := range fx.Data() {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	// Saturates to the closed bounds without overflowing to NaN.
	fx = e.Forward(nil, ms(tensor.ColumnVector(-1000, 1000)))
	assert.Equal(t, 0.0, fx.At(0, 0))
	assert.Equal(t, 1.0, fx.At(1, 0))
}

func TestTanh(t *testing.T) {
	e := edges.Tanh(0)
	assert.Equal(t, 0.0, e.Forward(nil, ms(tensor.Scalar(0))).At(0, 0))

	x := tensor.ColumnVector(-5, -0.3, 0.1, 4)
	fx := e.Forward(nil, ms(x))
	for _, v := range fx.Data() {
		assert.Greater(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}

	dEdf := tensor.ColumnVector(1, 1, 2, 1)
	grad := e.Backward(ms(x), fx, dEdf, 0)
	for i := 0; i < 4; i++ {
		f := fx.At(i, 0)
		assert.InDelta(t, (1-f*f)*dEdf.At(i, 0), grad.At(i, 0), 1e-15)
	}
}

func TestLogSoftmax_Normalized(t *testing.T) {
	e := edges.LogSoftmax(0)
	for _, x := range []*tensor.Matrix{
		tensor.ColumnVector(1, 2, 3),
		tensor.ColumnVector(-4, 0, 0.5, 7),
		tensor.ColumnVector(0),
		tensor.ColumnVector(1000, 1001, 999),
		tensor.ColumnVector(-1000, -1001),
	} {
		fx := e.Forward(nil, ms(x))
		total := 0.0
		for _, v := range fx.Data() {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite output for %v", x)
			total += math.Exp(v)
		}
		assert.InDelta(t, 1.0, total, 1e-12, "input %v", x)
	}
}

func TestLogSoftmax_Backward(t *testing.T) {
	e := edges.LogSoftmax(0)
	x := tensor.ColumnVector(0.1, 0.5, 0.4)
	fx := e.Forward(nil, ms(x))
	dEdf := tensor.ColumnVector(0, -1, 0)

	grad := e.Backward(ms(x), fx, dEdf, 0)
	// dEdx_i = dEdf_i - softmax_i * Σ dEdf = dEdf_i + softmax_i
	for i := 0; i < 3; i++ {
		assert.InDelta(t, dEdf.At(i, 0)+math.Exp(fx.At(i, 0)), grad.At(i, 0), 1e-12)
	}
}

func TestLogSoftmax_RequiresColumnVector(t *testing.T) {
	err := catch(func() { edges.LogSoftmax(0).Forward(nil, ms(tensor.Ones(2, 2))) })
	require.ErrorIs(t, err, tensor.ErrDimMismatch)
}

func TestPickElement(t *testing.T) {
	e := edges.PickElement(0, 1)
	x := tensor.ColumnVector(0.1, 0.5, 0.4)
	idx := tensor.Scalar(1)

	fx := e.Forward(nil, ms(x, idx))
	assert.True(t, fx.Equal(tensor.Scalar(0.5)))

	grad := e.Backward(ms(x, idx), fx, tensor.Scalar(1.0), 0)
	assert.Equal(t, []float64{0, 1, 0}, grad.Data())

	for k := 0; k < 3; k++ {
		at := tensor.Scalar(float64(k))
		assert.Equal(t, x.At(k, 0), e.Forward(nil, ms(x, at)).At(0, 0))
		g := e.Backward(ms(x, at), fx, tensor.Scalar(-2.5), 0)
		for r := 0; r < 3; r++ {
			want := 0.0
			if r == k {
				want = -2.5
			}
			assert.Equal(t, want, g.At(r, 0))
		}
	}
}

func TestPickElement_Violations(t *testing.T) {
	e := edges.PickElement(0, 1)
	x := tensor.ColumnVector(0.1, 0.5, 0.4)
	fx := tensor.Scalar(0.5)

	err := catch(func() { e.Backward(ms(x, tensor.Scalar(1)), fx, tensor.Scalar(1), 1) })
	require.ErrorIs(t, err, edges.ErrNotDifferentiable)
	assert.False(t, e.Differentiable(1))
	assert.True(t, e.Differentiable(0))

	for _, bad := range []float64{3, -1, 0.5, math.NaN()} {
		err = catch(func() { e.Forward(nil, ms(x, tensor.Scalar(bad))) })
		require.ErrorIs(t, err, tensor.ErrIndexOutOfRange, "index %v", bad)
	}

	err = catch(func() { e.Forward(nil, ms(x, tensor.ColumnVector(1, 2))) })
	require.ErrorIs(t, err, tensor.ErrDimMismatch)

	err = catch(func() { e.Forward(nil, ms(tensor.Ones(3, 2), tensor.Scalar(0))) })
	require.ErrorIs(t, err, tensor.ErrDimMismatch)
}

func TestSquare(t *testing.T) {
	e := edges.Square(0)
	x := tensor.FromRows([][]float64{{-1.5, 2}, {0, 3}})
	fx := e.Forward(nil, ms(x))
	assert.True(t, fx.Equal(x.CwiseProduct(x)))

	dEdf := tensor.FromRows([][]float64{{1, 0.5}, {2, -1}})
	grad := e.Backward(ms(x), fx, dEdf, 0)
	assert.Equal(t, []float64{-3, 2, 0, -6}, grad.Data())
}

func TestBackward_Violations(t *testing.T) {
	x := tensor.ColumnVector(1, 2)
	e := edges.Tanh(0)
	fx := e.Forward(nil, ms(x))

	err := catch(func() { e.Backward(ms(x), fx, fx, 1) })
	require.ErrorIs(t, err, edges.ErrArity)

	err = catch(func() { e.Backward(ms(x), fx, tensor.Ones(1, 2), 0) })
	require.ErrorIs(t, err, tensor.ErrDimMismatch)

	err = catch(func() { e.Forward(nil, ms(x, x)) })
	require.ErrorIs(t, err, edges.ErrArity)

	err = catch(func() { new(edges.Edge).Forward(nil, nil) })
	require.ErrorIs(t, err, edges.ErrInvalidKind)
}

func TestEdges_DoNotMutateInputs(t *testing.T) {
	a := tensor.FromRows([][]float64{{0.3, -0.2}, {1.1, 0.4}})
	b := tensor.FromRows([][]float64{{-0.7, 0.9}, {0.2, 0.6}})
	aCopy, bCopy := a.Clone(), b.Clone()

	for _, e := range []*edges.Edge{
		edges.Sum(0, 1),
		edges.MatrixMultiply(0, 1),
		edges.SquaredEuclideanDistance(0, 1),
	} {
		fx := e.Forward(nil, ms(a, b))
		dEdf := tensor.Ones(fx.Rows(), fx.Cols())
		e.Backward(ms(a, b), fx, dEdf, 0)
		e.Backward(ms(a, b), fx, dEdf, 1)
	}
	for _, e := range []*edges.Edge{edges.LogisticSigmoid(0), edges.Tanh(0), edges.Square(0)} {
		fx := e.Forward(nil, ms(a))
		e.Backward(ms(a), fx, tensor.Ones(2, 2), 0)
	}

	assert.True(t, aCopy.Equal(a))
	assert.True(t, bCopy.Equal(b))
}

func TestAsString(t *testing.T) {
	tests := []struct {
		edge *edges.Edge
		args []string
		want string
	}{
		{edges.MatrixMultiply(0, 1), []string{"W", "x"}, "W * x"},
		{edges.Sum(0, 1, 2), []string{"a", "b", "c"}, "a + b + c"},
		{edges.Sum(0), []string{"a"}, "a"},
		{edges.SquaredEuclideanDistance(0, 1), []string{"y", "t"}, "|| y - t ||^2"},
		{edges.LogisticSigmoid(0), []string{"h"}, `\sigma(h)`},
		{edges.Tanh(0), []string{"h"}, "tanh(h)"},
		{edges.LogSoftmax(0), []string{"z"}, "log_softmax(z)"},
		{edges.PickElement(0, 1), []string{"p", "k"}, "pick(p_k)"},
		{edges.Square(0), []string{"d"}, "square(d)"},
		{edges.Parameter(0, tensor.NewDim(3, 2)), nil, "parameters(3,2)"},
		{edges.Input(0, tensor.NewDim(2, 1)), nil, "constant(2,1)"},
		{edges.Lookup(0, tensor.NewDim(4, 1), 7), nil, "lookup[7](4,1)"},
	}
	for _, tt := range tests {
		t.Run(tt.edge.Kind().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.edge.AsString(tt.args))
		})
	}

	err := catch(func() { edges.Sum(0, 1).AsString([]string{"a"}) })
	require.ErrorIs(t, err, edges.ErrArity)
}

func TestLeafEdges(t *testing.T) {
	store := params.NewStore()
	w := store.AddParameters("W", tensor.FromRows([][]float64{{1, 2}, {3, 4}}))
	c := store.AddConst("x", tensor.ColumnVector(5, 6))
	l := store.AddLookup("E", []*tensor.Matrix{tensor.ColumnVector(1, 0), tensor.ColumnVector(0, 1)})

	pe := edges.Parameter(w, tensor.NewDim(2, 2))
	ie := edges.Input(c, tensor.NewDim(2, 1))
	le := edges.Lookup(l, tensor.NewDim(2, 1), 1)

	assert.True(t, pe.HasParameters())
	assert.False(t, ie.HasParameters())
	assert.False(t, le.HasParameters())
	assert.False(t, edges.Tanh(0).HasParameters())
	assert.Equal(t, 0, pe.Arity())
	assert.Empty(t, pe.Tail())
	assert.Equal(t, tensor.NewDim(2, 1), le.Dim())

	t.Run("forward copies the current value", func(t *testing.T) {
		fx := pe.Forward(store, nil)
		assert.Equal(t, []float64{1, 2, 3, 4}, fx.Data())
		fx.Set(0, 0, 100)
		assert.Equal(t, 1.0, store.ParameterValue(w).At(0, 0))

		assert.Equal(t, []float64{5, 6}, ie.Forward(store, nil).Data())
		assert.Equal(t, []float64{0, 1}, le.Forward(store, nil).Data())

		store.SetConst(c, tensor.ColumnVector(7, 8))
		assert.Equal(t, []float64{7, 8}, ie.Forward(store, nil).Data())
	})

	t.Run("backward has no tail", func(t *testing.T) {
		err := catch(func() { pe.Backward(nil, tensor.Ones(2, 2), tensor.Ones(2, 2), 0) })
		require.ErrorIs(t, err, edges.ErrNoTail)
	})

	t.Run("gradients reach the store", func(t *testing.T) {
		edges.AccumulateLeaf(pe, store, tensor.Ones(2, 2))
		edges.AccumulateLeaf(le, store, tensor.ColumnVector(0.5, 0.25))
		edges.AccumulateLeaf(ie, store, tensor.ColumnVector(9, 9))

		assert.Equal(t, []float64{1, 1, 1, 1}, store.Parameters(w).Grad().Data())
		assert.Equal(t, []float64{0, 0}, store.Lookup(l).RowGrad(0).Data())
		assert.Equal(t, []float64{0.5, 0.25}, store.Lookup(l).RowGrad(1).Data())

		err := catch(func() { edges.AccumulateLeaf(edges.Tanh(0), store, tensor.Ones(1, 1)) })
		require.ErrorIs(t, err, edges.ErrNotLeaf)

		err = catch(func() { edges.AccumulateLeaf(pe, store, tensor.Ones(1, 2)) })
		require.ErrorIs(t, err, tensor.ErrDimMismatch)
	})

	t.Run("out of range lookup", func(t *testing.T) {
		bad := edges.Lookup(l, tensor.NewDim(2, 1), 2)
		err := catch(func() { bad.Forward(store, nil) })
		require.ErrorIs(t, err, tensor.ErrIndexOutOfRange)

		err = catch(func() { edges.Lookup(l, tensor.NewDim(2, 1), -1) })
		require.ErrorIs(t, err, tensor.ErrIndexOutOfRange)
	})

	t.Run("handles", func(t *testing.T) {
		assert.Equal(t, w, pe.ParameterID())
		assert.Equal(t, c, ie.ConstID())
		id, row := le.LookupID()
		assert.Equal(t, l, id)
		assert.Equal(t, 1, row)
		require.ErrorIs(t, catch(func() { pe.ConstID() }), edges.ErrInvalidKind)
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "matrix_multiply", edges.KindMatrixMultiply.String())
	k, err := edges.KindString("log_softmax")
	require.NoError(t, err)
	assert.Equal(t, edges.KindLogSoftmax, k)
	assert.True(t, edges.KindLookup.IsLeaf())
	assert.False(t, edges.KindSum.IsLeaf())
}
