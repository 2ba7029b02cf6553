package graph

import (
	"github.com/born-ml/edges/internal/edges"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Backward propagates the gradient of the last node, which must be a 1x1
// loss, through the graph in reverse insertion order.
//
// Algorithm:
//  1. Seed dE/dloss = 1
//  2. Walk nodes backwards, skipping nodes no gradient reached
//  3. For a compute edge, ask Backward for each differentiable tail input and
//     sum the contributions per node (a node may feed several edges)
//  4. For a leaf edge, hand its gradient to the store via edges.AccumulateLeaf
//
// Forward must have been run. Gradients accumulate into the store; call
// Store().ZeroGrad() between steps.
func (g *Graph) Backward() {
	if g.values == nil {
		panic(errors.WithStack(ErrNotEvaluated))
	}
	last := len(g.nodes) - 1
	if loss := g.values[last]; !loss.Dim().IsScalar() {
		panic(errors.Wrapf(ErrNotScalar, "x%d is %s", last, loss.Dim()))
	}

	g.grads = make([]*tensor.Matrix, len(g.nodes))
	g.grads[last] = tensor.Scalar(1)

	for i := last; i >= 0; i-- {
		dEdf := g.grads[i]
		if dEdf == nil {
			continue
		}
		e := g.nodes[i]
		if e.Kind().IsLeaf() {
			edges.AccumulateLeaf(e, g.store, dEdf)
			continue
		}
		xs := g.inputs(e)
		for j, t := range e.Tail() {
			if !e.Differentiable(j) {
				continue
			}
			g.accumulate(t, e.Backward(xs, g.values[i], dEdf, j))
		}
		klog.V(2).Infof("graph: backward x%d (%s)", i, e.Kind())
	}
}

// accumulate adds grad into the gradient of node t. grad is owned by the graph
// from here on.
func (g *Graph) accumulate(t int, grad *tensor.Matrix) {
	if existing := g.grads[t]; existing != nil {
		existing.AddInPlace(grad)
		return
	}
	g.grads[t] = grad
}
