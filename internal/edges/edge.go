// Package edges defines the differentiable operations a computation graph is
// built from.
//
// An Edge is a closed tagged variant: its Kind selects the operation and it
// carries only the data that operation needs. Every edge provides:
//   - Forward: the value of the operation given its input matrices
//   - Backward: the gradient of the loss with respect to one input, given the
//     inputs, the cached forward output fx and the output gradient dEdf
//   - AsString: a readable rendering for debugging
//
// Supported operations:
//   - Parameter, Input, Lookup: leaves reading the parameter store
//   - MatrixMultiply: y = x1 · x2 (dx1 = dEdf · x2ᵗ, dx2 = x1ᵗ · dEdf)
//   - Sum: y = Σ xi (dxi = dEdf)
//   - SquaredEuclideanDistance: y = ||x1 - x2||² (dx1 = 2·dEdf·(x1-x2) = -dx2)
//   - LogisticSigmoid: y = σ(x) (dx = σ(1-σ)·dEdf)
//   - Tanh: y = tanh(x) (dx = (1-y²)·dEdf)
//   - LogSoftmax: y = x - log Σ exp(x) (dx = dEdf - exp(y)·Σ dEdf)
//   - PickElement: y = x1[x2] (dx1 = one-hot · dEdf, x2 not differentiable)
//   - Square: y = x ⊙ x (dx = 2·x·dEdf)
//
// Edges are immutable after construction and hold no state between calls, so
// they may be evaluated concurrently. They never own their inputs: xs, fx and
// dEdf are borrowed for the duration of a call and never mutated.
//
// Contract violations (wrong arity, mismatched dims, out-of-range indices,
// non-differentiable arguments) panic with an error wrapping one of the
// sentinels of this package or of the tensor package.
package edges

import (
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
)

// Source resolves the handles held by leaf edges to current values.
// *params.Store implements it.
type Source interface {
	ParameterValue(id params.ParamID) *tensor.Matrix
	ConstValue(id params.ConstID) *tensor.Matrix
	LookupRow(id params.LookupID, row int) *tensor.Matrix
}

// Sink receives the gradients of leaf edges. *params.Store implements it.
type Sink interface {
	AccumulateGrad(id params.ParamID, g *tensor.Matrix)
	AccumulateRowGrad(id params.LookupID, row int, g *tensor.Matrix)
}

// Edge is one differentiable operation of a computation graph.
type Edge struct {
	kind Kind

	// Compute edges: node indices of the inputs, owned by the graph.
	tail []int

	// Leaf edges: expected output shape and the store handle.
	dim      tensor.Dim
	param    params.ParamID
	constant params.ConstID
	lookup   params.LookupID
	row      int
}

// Kind returns the operation of the edge.
func (e *Edge) Kind() Kind {
	return e.kind
}

// Tail returns a copy of the input node indices. Leaves have none.
func (e *Edge) Tail() []int {
	return append([]int(nil), e.tail...)
}

// Arity returns the number of inputs Forward expects.
func (e *Edge) Arity() int {
	return len(e.tail)
}

// Dim returns the output shape of a leaf edge. Compute edges derive their
// shape from their inputs and return the zero Dim.
func (e *Edge) Dim() tensor.Dim {
	return e.dim
}

// HasParameters reports whether Forward reads trainable state.
func (e *Edge) HasParameters() bool {
	return e.kind == KindParameter
}

// Differentiable reports whether Backward may be called for input i.
func (e *Edge) Differentiable(i int) bool {
	if e.kind.IsLeaf() || i < 0 || i >= len(e.tail) {
		return false
	}
	return !(e.kind == KindPickElement && i == 1)
}

// Forward computes the edge value from its inputs. Leaves ignore xs (which
// must be empty) and read src; compute edges ignore src.
func (e *Edge) Forward(src Source, xs []*tensor.Matrix) *tensor.Matrix {
	e.checkInputs(xs)
	switch e.kind {
	case KindParameter, KindInput, KindLookup:
		return e.forwardLeaf(src)
	case KindMatrixMultiply:
		return forwardMatrixMultiply(xs)
	case KindSum:
		return forwardSum(xs)
	case KindSquaredEuclideanDistance:
		return forwardSquaredDistance(xs)
	case KindLogisticSigmoid:
		return forwardSigmoid(xs)
	case KindTanh:
		return forwardTanh(xs)
	case KindLogSoftmax:
		return forwardLogSoftmax(e, xs)
	case KindPickElement:
		return forwardPickElement(e, xs)
	case KindSquare:
		return forwardSquare(xs)
	}
	panic(violation(ErrInvalidKind, e, "forward"))
}

// Backward returns dE/dxs[i], with the dim of xs[i], given the inputs, the
// cached forward output fx and the gradient dEdf of the loss w.r.t. fx.
func (e *Edge) Backward(xs []*tensor.Matrix, fx, dEdf *tensor.Matrix, i int) *tensor.Matrix {
	if e.kind.IsLeaf() {
		panic(violation(ErrNoTail, e, "backward requested for input %d", i))
	}
	e.checkInputs(xs)
	if i < 0 || i >= len(xs) {
		panic(violation(ErrArity, e, "backward requested for input %d of %d", i, len(xs)))
	}
	if !e.Differentiable(i) {
		panic(violation(ErrNotDifferentiable, e, "with respect to input %d", i))
	}
	tensor.MustMatch(e.kind.String()+" dEdf", fx.Dim(), dEdf.Dim())

	switch e.kind {
	case KindMatrixMultiply:
		return backwardMatrixMultiply(xs, dEdf, i)
	case KindSum:
		return backwardSum(dEdf)
	case KindSquaredEuclideanDistance:
		return backwardSquaredDistance(xs, dEdf, i)
	case KindLogisticSigmoid:
		return backwardSigmoid(fx, dEdf)
	case KindTanh:
		return backwardTanh(fx, dEdf)
	case KindLogSoftmax:
		return backwardLogSoftmax(fx, dEdf)
	case KindPickElement:
		return backwardPickElement(e, xs, dEdf)
	case KindSquare:
		return backwardSquare(xs, dEdf)
	}
	panic(violation(ErrInvalidKind, e, "backward"))
}

// AsString renders the edge as an expression over argNames, one name per
// tail entry. Leaves ignore argNames.
func (e *Edge) AsString(argNames []string) string {
	if len(argNames) < len(e.tail) {
		panic(violation(ErrArity, e, "%d argument names for %d inputs", len(argNames), len(e.tail)))
	}
	switch e.kind {
	case KindParameter, KindInput, KindLookup:
		return e.renderLeaf()
	case KindMatrixMultiply:
		return argNames[0] + " * " + argNames[1]
	case KindSum:
		return renderSum(argNames[:len(e.tail)])
	case KindSquaredEuclideanDistance:
		return "|| " + argNames[0] + " - " + argNames[1] + " ||^2"
	case KindLogisticSigmoid:
		return `\sigma(` + argNames[0] + ")"
	case KindTanh:
		return "tanh(" + argNames[0] + ")"
	case KindLogSoftmax:
		return "log_softmax(" + argNames[0] + ")"
	case KindPickElement:
		return "pick(" + argNames[0] + "_" + argNames[1] + ")"
	case KindSquare:
		return "square(" + argNames[0] + ")"
	}
	panic(violation(ErrInvalidKind, e, "as string"))
}

// checkInputs validates the input count against the tail.
func (e *Edge) checkInputs(xs []*tensor.Matrix) {
	if len(xs) != len(e.tail) {
		panic(violation(ErrArity, e, "got %d inputs, want %d", len(xs), len(e.tail)))
	}
}

// unary builds a single-input compute edge.
func unary(kind Kind, x int) *Edge {
	return &Edge{kind: kind, tail: []int{x}}
}

// binary builds a two-input compute edge.
func binary(kind Kind, a, b int) *Edge {
	return &Edge{kind: kind, tail: []int{a, b}}
}
