package edges

import (
	"fmt"

	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// Parameter creates a leaf reading the trainable matrix id, whose shape is dim.
func Parameter(id params.ParamID, dim tensor.Dim) *Edge {
	mustValidDim(dim)
	return &Edge{kind: KindParameter, param: id, dim: dim}
}

// Input creates a leaf reading the constant id, whose shape is dim.
func Input(id params.ConstID, dim tensor.Dim) *Edge {
	mustValidDim(dim)
	return &Edge{kind: KindInput, constant: id, dim: dim}
}

// Lookup creates a leaf selecting entry row of lookup table id, whose
// entries have shape dim. The row is fixed for the lifetime of the edge.
func Lookup(id params.LookupID, dim tensor.Dim, row int) *Edge {
	mustValidDim(dim)
	if row < 0 {
		panic(errors.Wrapf(tensor.ErrIndexOutOfRange, "lookup: negative row %d", row))
	}
	return &Edge{kind: KindLookup, lookup: id, dim: dim, row: row}
}

// ParameterID returns the handle of a Parameter edge.
func (e *Edge) ParameterID() params.ParamID {
	e.mustBe(KindParameter)
	return e.param
}

// ConstID returns the handle of an Input edge.
func (e *Edge) ConstID() params.ConstID {
	e.mustBe(KindInput)
	return e.constant
}

// LookupID returns the table handle and the selected row of a Lookup edge.
func (e *Edge) LookupID() (params.LookupID, int) {
	e.mustBe(KindLookup)
	return e.lookup, e.row
}

// forwardLeaf returns a copy of the referenced value.
func (e *Edge) forwardLeaf(src Source) *tensor.Matrix {
	var v *tensor.Matrix
	switch e.kind {
	case KindParameter:
		v = src.ParameterValue(e.param)
	case KindInput:
		v = src.ConstValue(e.constant)
	default:
		v = src.LookupRow(e.lookup, e.row)
	}
	tensor.MustMatch(e.kind.String(), e.dim, v.Dim())
	return v.Clone()
}

// AccumulateLeaf hands the output gradient of a leaf edge to sink:
// a Parameter accumulates it into its parameter, a Lookup into its selected
// row only, and an Input drops it.
func AccumulateLeaf(e *Edge, sink Sink, dEdf *tensor.Matrix) {
	if !e.kind.IsLeaf() {
		panic(violation(ErrNotLeaf, e, "accumulate"))
	}
	tensor.MustMatch(e.kind.String()+" dEdf", e.dim, dEdf.Dim())
	switch e.kind {
	case KindParameter:
		sink.AccumulateGrad(e.param, dEdf)
	case KindLookup:
		sink.AccumulateRowGrad(e.lookup, e.row, dEdf)
	}
}

func (e *Edge) renderLeaf() string {
	switch e.kind {
	case KindParameter:
		return fmt.Sprintf("parameters(%d,%d)", e.dim.Rows, e.dim.Cols)
	case KindInput:
		return fmt.Sprintf("constant(%d,%d)", e.dim.Rows, e.dim.Cols)
	default:
		return fmt.Sprintf("lookup[%d](%d,%d)", e.row, e.dim.Rows, e.dim.Cols)
	}
}

func (e *Edge) mustBe(kind Kind) {
	if e.kind != kind {
		panic(violation(ErrInvalidKind, e, "want %s", kind))
	}
}

func mustValidDim(dim tensor.Dim) {
	if err := dim.Validate(); err != nil {
		panic(err)
	}
}
