// Package tensor provides the 2-D shape and dense matrix types the edge engine
// computes with.
package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Dim represents the shape of a 2-D tensor: rows x cols.
type Dim struct {
	Rows int
	Cols int
}

// NewDim creates a Dim, panicking with ErrInvalidDim if either side is not positive.
func NewDim(rows, cols int) Dim {
	d := Dim{Rows: rows, Cols: cols}
	if err := d.Validate(); err != nil {
		panic(err)
	}
	return d
}

// Size returns the total number of elements.
func (d Dim) Size() int {
	return d.Rows * d.Cols
}

// Validate checks if the dim is valid (both sides > 0).
func (d Dim) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 {
		return errors.Wrapf(ErrInvalidDim, "%s (must be > 0)", d)
	}
	return nil
}

// Equal checks if two dims are equal.
func (d Dim) Equal(other Dim) bool {
	return d.Rows == other.Rows && d.Cols == other.Cols
}

// IsColumnVector reports whether the dim has exactly one column.
func (d Dim) IsColumnVector() bool {
	return d.Cols == 1
}

// IsScalar reports whether the dim is 1x1.
func (d Dim) IsScalar() bool {
	return d.Rows == 1 && d.Cols == 1
}

// Transpose returns the dim with rows and cols swapped.
func (d Dim) Transpose() Dim {
	return Dim{Rows: d.Cols, Cols: d.Rows}
}

// String renders the dim as {rows,cols}.
func (d Dim) String() string {
	return fmt.Sprintf("{%d,%d}", d.Rows, d.Cols)
}

// MustMatch panics with ErrDimMismatch unless a and b are equal.
// op names the operation for the error message.
func MustMatch(op string, a, b Dim) {
	if !a.Equal(b) {
		panic(errors.Wrapf(ErrDimMismatch, "%s: %s vs %s", op, a, b))
	}
}
