package graph

import "github.com/pkg/errors"

// Graph construction and evaluation violations, raised as panics.
// TryForward and TryBackward convert them to errors.
var (
	// ErrBadTail is raised when an edge references a node that does not
	// precede it in the graph.
	ErrBadTail = errors.New("graph: tail references an unknown node")

	// ErrEmptyGraph is raised when evaluating a graph with no nodes.
	ErrEmptyGraph = errors.New("graph: no nodes")

	// ErrNotEvaluated is raised when Backward or Value is called before Forward.
	ErrNotEvaluated = errors.New("graph: forward has not been run")

	// ErrNotScalar is raised when Backward is called on a graph whose last
	// node is not 1x1.
	ErrNotScalar = errors.New("graph: loss is not a scalar")
)
