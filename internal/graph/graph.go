// Package graph is a reference executor for edges: it owns the topology of a
// computation graph, evaluates it forward, and backpropagates a scalar loss
// into the parameter store.
//
// Nodes are appended one at a time and may only reference earlier nodes, so
// insertion order is always a valid topological order.
//
// Usage:
//
//	store := params.NewStore()
//	w := store.AddParameters("W", params.Xavier(rng, 1, 2))
//	x := store.AddConst("x", tensor.ColumnVector(1, 2))
//	y := store.AddConst("y", tensor.Scalar(3))
//
//	g := graph.New(store)
//	pred := g.MatrixMultiply(g.AddParameters(w), g.AddInput(x))
//	g.SquaredDistance(pred, g.AddInput(y))
//
//	loss := g.Forward()
//	g.Backward() // gradients accumulate into store
package graph

import (
	"fmt"
	"strings"

	"github.com/born-ml/edges/internal/edges"
	"github.com/born-ml/edges/internal/parallel"
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// NodeID identifies a node of a Graph: its insertion index.
type NodeID int

// Graph is an append-only computation graph over a parameter store.
// A Graph is not safe for concurrent use.
type Graph struct {
	store  *params.Store
	nodes  []*edges.Edge
	values []*tensor.Matrix // Forward outputs, nil before Forward.
	grads  []*tensor.Matrix // dE/dnode, nil before Backward.
}

// New creates an empty graph reading and updating store.
func New(store *params.Store) *Graph {
	return &Graph{store: store}
}

// Store returns the parameter store of the graph.
func (g *Graph) Store() *params.Store {
	return g.store
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Edge returns the edge of node id.
func (g *Graph) Edge(id NodeID) *edges.Edge {
	g.checkNode(id)
	return g.nodes[id]
}

// Add appends e as a new node. Every tail entry of e must name an existing node.
// Cached values are dropped.
func (g *Graph) Add(e *edges.Edge) NodeID {
	for _, t := range e.Tail() {
		if t < 0 || t >= len(g.nodes) {
			panic(errors.Wrapf(ErrBadTail, "%s references x%d, graph has %d nodes", e.Kind(), t, len(g.nodes)))
		}
	}
	g.nodes = append(g.nodes, e)
	g.Clear()
	return NodeID(len(g.nodes) - 1)
}

// AddParameters appends a leaf reading trainable parameters id.
func (g *Graph) AddParameters(id params.ParamID) NodeID {
	return g.Add(edges.Parameter(id, g.store.Parameters(id).Dim()))
}

// AddInput appends a leaf reading constant id.
func (g *Graph) AddInput(id params.ConstID) NodeID {
	return g.Add(edges.Input(id, g.store.Const(id).Dim()))
}

// AddLookup appends a leaf selecting entry row of lookup table id.
func (g *Graph) AddLookup(id params.LookupID, row int) NodeID {
	return g.Add(edges.Lookup(id, g.store.Lookup(id).Dim(), row))
}

// MatrixMultiply appends a · b.
func (g *Graph) MatrixMultiply(a, b NodeID) NodeID {
	return g.Add(edges.MatrixMultiply(int(a), int(b)))
}

// Sum appends the elementwise sum of xs.
func (g *Graph) Sum(xs ...NodeID) NodeID {
	tail := make([]int, len(xs))
	for i, x := range xs {
		tail[i] = int(x)
	}
	return g.Add(edges.Sum(tail...))
}

// SquaredDistance appends ||a - b||².
func (g *Graph) SquaredDistance(a, b NodeID) NodeID {
	return g.Add(edges.SquaredEuclideanDistance(int(a), int(b)))
}

// Sigmoid appends σ(x).
func (g *Graph) Sigmoid(x NodeID) NodeID {
	return g.Add(edges.LogisticSigmoid(int(x)))
}

// Tanh appends tanh(x).
func (g *Graph) Tanh(x NodeID) NodeID {
	return g.Add(edges.Tanh(int(x)))
}

// LogSoftmax appends log_softmax(x).
func (g *Graph) LogSoftmax(x NodeID) NodeID {
	return g.Add(edges.LogSoftmax(int(x)))
}

// PickElement appends x[index], index being a node holding a 1x1 row number.
func (g *Graph) PickElement(x, index NodeID) NodeID {
	return g.Add(edges.PickElement(int(x), int(index)))
}

// Square appends x ⊙ x.
func (g *Graph) Square(x NodeID) NodeID {
	return g.Add(edges.Square(int(x)))
}

// Value returns the forward output of node id.
func (g *Graph) Value(id NodeID) *tensor.Matrix {
	g.checkNode(id)
	if g.values == nil {
		panic(errors.Wrapf(ErrNotEvaluated, "value of x%d", id))
	}
	return g.values[id]
}

// Grad returns dE/d(node id) from the last Backward, or nil if no gradient
// reached the node.
func (g *Graph) Grad(id NodeID) *tensor.Matrix {
	g.checkNode(id)
	if g.grads == nil {
		return nil
	}
	return g.grads[id]
}

// Clear drops cached forward values and gradients, keeping the nodes.
func (g *Graph) Clear() {
	g.values = nil
	g.grads = nil
}

// TryForward runs Forward, returning contract violations as errors.
func (g *Graph) TryForward() (out *tensor.Matrix, err error) {
	err = exceptions.TryCatch[error](func() {
		out = g.Forward()
	})
	return out, err
}

// TryParallelForward runs ParallelForward under cfg, returning contract
// violations raised on any worker as errors.
func (g *Graph) TryParallelForward(cfg parallel.Config) (out *tensor.Matrix, err error) {
	err = exceptions.TryCatch[error](func() {
		out = g.ParallelForward(cfg)
	})
	return out, err
}

// TryBackward runs Backward, returning contract violations as errors.
func (g *Graph) TryBackward() error {
	return exceptions.TryCatch[error](g.Backward)
}

// String renders one line per node, e.g. "x3 = tanh(x2)".
func (g *Graph) String() string {
	var sb strings.Builder
	for i, e := range g.nodes {
		fmt.Fprintf(&sb, "x%d = %s\n", i, e.AsString(argNames(e)))
	}
	return sb.String()
}

// inputs gathers the cached values of the tail of e.
func (g *Graph) inputs(e *edges.Edge) []*tensor.Matrix {
	tail := e.Tail()
	xs := make([]*tensor.Matrix, len(tail))
	for j, t := range tail {
		xs[j] = g.values[t]
	}
	return xs
}

func (g *Graph) checkNode(id NodeID) {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		panic(errors.Wrapf(ErrBadTail, "x%d, graph has %d nodes", id, len(g.nodes)))
	}
}

func argNames(e *edges.Edge) []string {
	tail := e.Tail()
	names := make([]string, len(tail))
	for j, t := range tail {
		names[j] = fmt.Sprintf("x%d", t)
	}
	return names
}
