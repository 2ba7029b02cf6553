package edges

import (
	"github.com/pkg/errors"
)

// Contract violations raised (as panics) by edges. They signal a malformed
// graph and are never returned as ordinary errors.
var (
	// ErrArity is raised when the number of inputs, argument names or the
	// requested input index does not fit the edge.
	ErrArity = errors.New("edges: wrong number of inputs")

	// ErrNotDifferentiable is raised when a gradient is requested for an
	// argument the edge is not differentiable with respect to.
	ErrNotDifferentiable = errors.New("edges: not differentiable")

	// ErrNoTail is raised when Backward is called on a leaf edge.
	ErrNoTail = errors.New("edges: leaf edge has no tail")

	// ErrNotLeaf is raised when a leaf-only operation is called on a compute edge.
	ErrNotLeaf = errors.New("edges: not a leaf edge")

	// ErrInvalidKind is raised when an Edge was not built by a constructor.
	ErrInvalidKind = errors.New("edges: invalid edge kind")
)

// violation wraps sentinel with the edge kind and a formatted detail.
func violation(sentinel error, e *Edge, format string, args ...any) error {
	return errors.Wrapf(sentinel, "%s: "+format, append([]any{e.kind}, args...)...)
}
