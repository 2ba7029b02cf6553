package tensor

import "github.com/pkg/errors"

// Contract violations. They are raised as panics wrapping one of these
// sentinels, so callers that recover (see exceptions.TryCatch) can still
// match them with errors.Is.
var (
	// ErrInvalidDim is raised when a dim has a non-positive side.
	ErrInvalidDim = errors.New("tensor: invalid dim")

	// ErrDimMismatch is raised when operand shapes are incompatible,
	// e.g. Add of different dims, or Mul where lhs.Cols != rhs.Rows.
	ErrDimMismatch = errors.New("tensor: dim mismatch")

	// ErrIndexOutOfRange is raised when a row or column index is outside
	// [0, rows) x [0, cols).
	ErrIndexOutOfRange = errors.New("tensor: index out of range")
)
