package graph

import (
	"github.com/born-ml/edges/internal/parallel"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Forward evaluates every node in insertion order, caches the outputs and
// returns the output of the last node.
func (g *Graph) Forward() *tensor.Matrix {
	g.startForward()
	for i := range g.nodes {
		g.forwardNode(i)
	}
	return g.values[len(g.values)-1]
}

// ParallelForward evaluates the graph level by level: a node's level is one
// more than the deepest node of its tail, and the nodes of a level are
// independent, so they are evaluated concurrently under cfg.
func (g *Graph) ParallelForward(cfg parallel.Config) *tensor.Matrix {
	g.startForward()
	for _, level := range g.levels() {
		parallel.For(len(level), func(k int) {
			g.forwardNode(level[k])
		}, cfg)
	}
	return g.values[len(g.values)-1]
}

func (g *Graph) startForward() {
	if len(g.nodes) == 0 {
		panic(errors.WithStack(ErrEmptyGraph))
	}
	g.values = make([]*tensor.Matrix, len(g.nodes))
	g.grads = nil
}

func (g *Graph) forwardNode(i int) {
	e := g.nodes[i]
	g.values[i] = e.Forward(g.store, g.inputs(e))
	if klog.V(2).Enabled() {
		klog.Infof("graph: forward x%d = %s -> %s", i, e.AsString(argNames(e)), g.values[i].Dim())
	}
}

// levels groups node indices by dependency depth.
func (g *Graph) levels() [][]int {
	depth := make([]int, len(g.nodes))
	var levels [][]int
	for i, e := range g.nodes {
		d := 0
		for _, t := range e.Tail() {
			d = max(d, depth[t]+1)
		}
		depth[i] = d
		if d == len(levels) {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], i)
	}
	return levels
}
