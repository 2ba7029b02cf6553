// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides a reference executor for edges.
//
// A Graph owns an append-only list of edges over a params.Store, evaluates
// it forward and backpropagates a scalar loss into the store.
//
// Example:
//
//	g := graph.New(store)
//	h := g.Tanh(g.MatrixMultiply(g.AddParameters(w), g.AddInput(x)))
//	g.SquaredDistance(h, g.AddInput(y))
//
//	loss, err := g.TryForward()
//	if err != nil {
//	    return err
//	}
//	if err := g.TryBackward(); err != nil {
//	    return err
//	}
//	fmt.Print(g) // x0 = parameters(...) ...
package graph

import (
	"github.com/born-ml/edges/internal/graph"
	"github.com/born-ml/edges/internal/params"
)

// Graph is an append-only computation graph.
type Graph = graph.Graph

// NodeID identifies a node of a Graph.
type NodeID = graph.NodeID

// Contract violation sentinels.
var (
	ErrBadTail      = graph.ErrBadTail
	ErrEmptyGraph   = graph.ErrEmptyGraph
	ErrNotEvaluated = graph.ErrNotEvaluated
	ErrNotScalar    = graph.ErrNotScalar
)

// New creates an empty graph over store.
func New(store *params.Store) *Graph {
	return graph.New(store)
}
