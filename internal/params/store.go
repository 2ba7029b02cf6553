package params

import (
	"sync"

	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Store is the arena owning every parameter, constant and lookup table a
// graph reads. Edges keep only handles into it; the store outlives them.
//
// Reads of values are unsynchronized. Gradient accumulation and ZeroGrad are
// serialized by the store, so several executors may accumulate into the same
// parameter concurrently.
type Store struct {
	mu      sync.Mutex
	params  []*Parameters
	consts  []*ConstParameters
	lookups []*LookupParameters
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// AddParameters registers a trainable matrix initialized to a copy of value
// and returns its handle.
func (s *Store) AddParameters(name string, value *tensor.Matrix) ParamID {
	p := &Parameters{
		name:  name,
		value: value.Clone(),
		grad:  tensor.New(value.Dim()),
	}
	s.params = append(s.params, p)
	klog.V(1).Infof("params: added parameters %q %s", name, p.Dim())
	return ParamID(len(s.params) - 1)
}

// AddConst registers a constant initialized to a copy of value.
func (s *Store) AddConst(name string, value *tensor.Matrix) ConstID {
	c := &ConstParameters{name: name, value: value.Clone()}
	s.consts = append(s.consts, c)
	klog.V(1).Infof("params: added constant %q %s", name, c.Dim())
	return ConstID(len(s.consts) - 1)
}

// AddLookup registers a lookup table whose entries are copies of values.
// All entries must share the same dim.
func (s *Store) AddLookup(name string, values []*tensor.Matrix) LookupID {
	if len(values) == 0 {
		panic(errors.Wrapf(tensor.ErrInvalidDim, "lookup %q: empty table", name))
	}
	dim := values[0].Dim()
	l := &LookupParameters{
		name:    name,
		dim:     dim,
		values:  make([]*tensor.Matrix, len(values)),
		grads:   make([]*tensor.Matrix, len(values)),
		touched: make(map[int]struct{}),
	}
	for i, v := range values {
		tensor.MustMatch("lookup entry", dim, v.Dim())
		l.values[i] = v.Clone()
		l.grads[i] = tensor.New(dim)
	}
	s.lookups = append(s.lookups, l)
	klog.V(1).Infof("params: added lookup %q with %d entries of %s", name, len(values), dim)
	return LookupID(len(s.lookups) - 1)
}

// Parameters returns the entry for id.
func (s *Store) Parameters(id ParamID) *Parameters {
	if int(id) < 0 || int(id) >= len(s.params) {
		panic(handleError("parameters", int(id)))
	}
	return s.params[id]
}

// Const returns the entry for id.
func (s *Store) Const(id ConstID) *ConstParameters {
	if int(id) < 0 || int(id) >= len(s.consts) {
		panic(handleError("constant", int(id)))
	}
	return s.consts[id]
}

// Lookup returns the entry for id.
func (s *Store) Lookup(id LookupID) *LookupParameters {
	if int(id) < 0 || int(id) >= len(s.lookups) {
		panic(handleError("lookup", int(id)))
	}
	return s.lookups[id]
}

// SetConst overwrites the value of a constant. The dim must not change.
func (s *Store) SetConst(id ConstID, value *tensor.Matrix) {
	s.Const(id).value.CopyFrom(value)
}

// ParameterValue returns the current value of a trainable matrix.
func (s *Store) ParameterValue(id ParamID) *tensor.Matrix {
	return s.Parameters(id).value
}

// ConstValue returns the current value of a constant.
func (s *Store) ConstValue(id ConstID) *tensor.Matrix {
	return s.Const(id).value
}

// LookupRow returns the current value of entry row of a lookup table.
func (s *Store) LookupRow(id LookupID, row int) *tensor.Matrix {
	return s.Lookup(id).Row(row)
}

// AccumulateGrad adds g into the gradient of a trainable matrix.
func (s *Store) AccumulateGrad(id ParamID, g *tensor.Matrix) {
	p := s.Parameters(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	p.grad.AddInPlace(g)
}

// AccumulateRowGrad adds g into the gradient of entry row of a lookup table.
// Other entries are left untouched.
func (s *Store) AccumulateRowGrad(id LookupID, row int, g *tensor.Matrix) {
	l := s.Lookup(id)
	grad := l.RowGrad(row)
	s.mu.Lock()
	defer s.mu.Unlock()
	grad.AddInPlace(g)
	l.touched[row] = struct{}{}
}

// ZeroGrad resets every gradient accumulator.
func (s *Store) ZeroGrad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.params {
		p.grad.Zero()
	}
	for _, l := range s.lookups {
		for r := range l.touched {
			l.grads[r].Zero()
		}
		clear(l.touched)
	}
}

// ParameterIDs returns the handles of every trainable matrix, in insertion order.
func (s *Store) ParameterIDs() []ParamID {
	ids := make([]ParamID, len(s.params))
	for i := range ids {
		ids[i] = ParamID(i)
	}
	return ids
}

// LookupIDs returns the handles of every lookup table, in insertion order.
func (s *Store) LookupIDs() []LookupID {
	ids := make([]LookupID, len(s.lookups))
	for i := range ids {
		ids[i] = LookupID(i)
	}
	return ids
}

// NumParameters counts the trainable scalars: parameters plus lookup entries.
func (s *Store) NumParameters() int {
	n := 0
	for _, p := range s.params {
		n += p.Dim().Size()
	}
	for _, l := range s.lookups {
		n += l.dim.Size() * len(l.values)
	}
	return n
}
