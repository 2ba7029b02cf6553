// Package params owns the values the leaf edges read: trainable parameters,
// constants and lookup tables, addressed by small integer handles.
package params

import (
	"sort"

	"github.com/born-ml/edges/internal/tensor"
)

// ParamID is the handle of a Parameters entry in a Store.
type ParamID int

// ConstID is the handle of a ConstParameters entry in a Store.
type ConstID int

// LookupID is the handle of a LookupParameters entry in a Store.
type LookupID int

// Parameters is a trainable matrix together with its gradient accumulator.
//
// Example:
//
//	id := store.AddParameters("W1", params.Xavier(rng, 8, 2))
//	w := store.Parameters(id)
//	fmt.Println(w.Value(), w.Grad())
type Parameters struct {
	name  string
	value *tensor.Matrix
	grad  *tensor.Matrix
}

// Name returns the parameter name.
func (p *Parameters) Name() string {
	return p.name
}

// Dim returns the parameter shape.
func (p *Parameters) Dim() tensor.Dim {
	return p.value.Dim()
}

// Value returns the current value. The matrix is owned by the store;
// callers must not keep it across updates.
func (p *Parameters) Value() *tensor.Matrix {
	return p.value
}

// Grad returns the accumulated gradient.
func (p *Parameters) Grad() *tensor.Matrix {
	return p.grad
}

// ConstParameters is a non-trainable matrix, typically a model input that
// is overwritten between passes.
type ConstParameters struct {
	name  string
	value *tensor.Matrix
}

// Name returns the constant name.
func (c *ConstParameters) Name() string {
	return c.name
}

// Dim returns the constant shape.
func (c *ConstParameters) Dim() tensor.Dim {
	return c.value.Dim()
}

// Value returns the current value.
func (c *ConstParameters) Value() *tensor.Matrix {
	return c.value
}

// LookupParameters is a table of equally shaped trainable entries
// (embeddings), one selected per lookup.
type LookupParameters struct {
	name    string
	dim     tensor.Dim
	values  []*tensor.Matrix
	grads   []*tensor.Matrix
	touched map[int]struct{}
}

// Name returns the table name.
func (l *LookupParameters) Name() string {
	return l.name
}

// Dim returns the shape of a single entry.
func (l *LookupParameters) Dim() tensor.Dim {
	return l.dim
}

// Size returns the number of entries.
func (l *LookupParameters) Size() int {
	return len(l.values)
}

// Row returns the value of entry i.
func (l *LookupParameters) Row(i int) *tensor.Matrix {
	l.checkRow(i)
	return l.values[i]
}

// RowGrad returns the accumulated gradient of entry i.
func (l *LookupParameters) RowGrad(i int) *tensor.Matrix {
	l.checkRow(i)
	return l.grads[i]
}

// Touched returns, in ascending order, the entries that received a gradient
// since the last ZeroGrad.
func (l *LookupParameters) Touched() []int {
	rows := make([]int, 0, len(l.touched))
	for r := range l.touched {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

func (l *LookupParameters) checkRow(i int) {
	if i < 0 || i >= len(l.values) {
		panic(indexError(l.name, i, len(l.values)))
	}
}
