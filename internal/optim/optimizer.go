// Package optim implements update rules over a params.Store.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Every trainable matrix of the store is updated, and of each lookup table
// only the entries that received a gradient since the last ZeroGrad.
//
// Example usage:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//	for epoch := range epochs {
//	    g.Forward()
//	    g.Backward()
//	    opt.Step(store)
//	    store.ZeroGrad()
//	}
package optim

import (
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the accumulated gradients of store to its values in place.
	Step(store *params.Store)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// slot identifies one updatable matrix: a parameters entry or a lookup row.
type slot struct {
	lookup bool
	id     int
	row    int
}

// forEachSlot calls fn with the value and gradient of every updatable matrix.
func forEachSlot(store *params.Store, fn func(s slot, value, grad *tensor.Matrix)) {
	for _, id := range store.ParameterIDs() {
		p := store.Parameters(id)
		fn(slot{id: int(id)}, p.Value(), p.Grad())
	}
	for _, id := range store.LookupIDs() {
		l := store.Lookup(id)
		for _, row := range l.Touched() {
			fn(slot{lookup: true, id: int(id), row: row}, l.Row(row), l.RowGrad(row))
		}
	}
}
