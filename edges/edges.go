// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package edges provides the differentiable operations of a computation graph.
//
// An Edge is one node operation: it names the nodes it reads (its tail),
// computes its output from their values (Forward), and returns the gradient
// of the loss with respect to one of its inputs (Backward). Edges are pure:
// they never mutate their inputs and keep no state between calls, so the
// same Edge may be evaluated from several goroutines.
//
// Example:
//
//	e := edges.MatrixMultiply(0, 1)
//	fx := e.Forward(nil, []*tensor.Matrix{w, x})
//	dW := e.Backward([]*tensor.Matrix{w, x}, fx, dEdf, 0)
//	fmt.Println(e.AsString([]string{"W", "x"})) // W * x
//
// Leaf edges (Parameter, Input, Lookup) have an empty tail and read their
// value from a params.Store by handle.
package edges

import (
	"github.com/born-ml/edges/internal/edges"
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
)

// Edge is a single differentiable operation.
type Edge = edges.Edge

// Kind identifies the operation of an Edge.
type Kind = edges.Kind

// Source supplies leaf values during Forward.
type Source = edges.Source

// Sink receives leaf gradients during backpropagation.
type Sink = edges.Sink

// Edge kinds.
const (
	KindParameter                = edges.KindParameter
	KindInput                    = edges.KindInput
	KindLookup                   = edges.KindLookup
	KindMatrixMultiply           = edges.KindMatrixMultiply
	KindSum                      = edges.KindSum
	KindSquaredEuclideanDistance = edges.KindSquaredEuclideanDistance
	KindLogisticSigmoid          = edges.KindLogisticSigmoid
	KindTanh                     = edges.KindTanh
	KindLogSoftmax               = edges.KindLogSoftmax
	KindPickElement              = edges.KindPickElement
	KindSquare                   = edges.KindSquare
)

// Contract violation sentinels.
var (
	ErrArity             = edges.ErrArity
	ErrNotDifferentiable = edges.ErrNotDifferentiable
	ErrNoTail            = edges.ErrNoTail
	ErrNotLeaf           = edges.ErrNotLeaf
	ErrInvalidKind       = edges.ErrInvalidKind
)

// Parameter creates a leaf reading trainable parameters id of shape dim.
func Parameter(id params.ParamID, dim tensor.Dim) *Edge {
	return edges.Parameter(id, dim)
}

// Input creates a leaf reading constant id of shape dim.
func Input(id params.ConstID, dim tensor.Dim) *Edge {
	return edges.Input(id, dim)
}

// Lookup creates a leaf selecting entry row of lookup table id.
func Lookup(id params.LookupID, dim tensor.Dim, row int) *Edge {
	return edges.Lookup(id, dim, row)
}

// MatrixMultiply creates a · b.
func MatrixMultiply(a, b int) *Edge {
	return edges.MatrixMultiply(a, b)
}

// Sum creates the elementwise sum of one or more same-shaped inputs.
func Sum(xs ...int) *Edge {
	return edges.Sum(xs...)
}

// SquaredEuclideanDistance creates ||a - b||², a 1x1 output.
func SquaredEuclideanDistance(a, b int) *Edge {
	return edges.SquaredEuclideanDistance(a, b)
}

// LogisticSigmoid creates the elementwise 1 / (1 + e^-x).
func LogisticSigmoid(x int) *Edge {
	return edges.LogisticSigmoid(x)
}

// Tanh creates the elementwise hyperbolic tangent.
func Tanh(x int) *Edge {
	return edges.Tanh(x)
}

// LogSoftmax creates log(softmax(x)) of a column vector.
func LogSoftmax(x int) *Edge {
	return edges.LogSoftmax(x)
}

// PickElement creates x[index], index being a 1x1 node holding a row number.
func PickElement(x, index int) *Edge {
	return edges.PickElement(x, index)
}

// Square creates the elementwise x².
func Square(x int) *Edge {
	return edges.Square(x)
}

// AccumulateLeaf hands dEdf, the gradient of leaf e, to sink.
func AccumulateLeaf(e *Edge, sink Sink, dEdf *tensor.Matrix) {
	edges.AccumulateLeaf(e, sink, dEdf)
}
