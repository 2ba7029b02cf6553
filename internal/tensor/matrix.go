package tensor

import (
	"fmt"

	"github.com/born-ml/edges/internal/parallel"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// kernelConfig drives the elementwise kernels of Apply and ZipApply.
var kernelConfig = parallel.DefaultConfig()

// SetParallelism replaces the configuration used by the elementwise kernels.
// It is not safe to call concurrently with matrix operations.
func SetParallelism(cfg parallel.Config) {
	kernelConfig = cfg
}

// Matrix is a dense, row-major, real-valued 2-D buffer with value semantics:
// every operation except AddInPlace returns a new matrix and leaves its
// receiver and arguments untouched.
type Matrix struct {
	dense *mat.Dense
}

// wrap takes ownership of d.
func wrap(d *mat.Dense) *Matrix {
	return &Matrix{dense: d}
}

// Dim returns the matrix shape.
func (m *Matrix) Dim() Dim {
	r, c := m.dense.Dims()
	return Dim{Rows: r, Cols: c}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	r, _ := m.dense.Dims()
	return r
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	_, c := m.dense.Dims()
	return c
}

// At returns the element at (i, j).
// Panics with ErrIndexOutOfRange outside [0, rows) x [0, cols).
func (m *Matrix) At(i, j int) float64 {
	m.checkIndex(i, j)
	return m.dense.At(i, j)
}

// Set writes v at (i, j).
// Panics with ErrIndexOutOfRange outside [0, rows) x [0, cols).
func (m *Matrix) Set(i, j int, v float64) {
	m.checkIndex(i, j)
	m.dense.Set(i, j, v)
}

func (m *Matrix) checkIndex(i, j int) {
	r, c := m.dense.Dims()
	if i < 0 || i >= r || j < 0 || j >= c {
		panic(errors.Wrapf(ErrIndexOutOfRange, "(%d,%d) in matrix %s", i, j, m.Dim()))
	}
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	return wrap(mat.DenseCopyOf(m.dense))
}

// Raw exposes the matrix as a read-only gonum matrix.
func (m *Matrix) Raw() mat.Matrix {
	return m.dense
}

// Data returns a copy of the elements in row-major order.
func (m *Matrix) Data() []float64 {
	raw := m.dense.RawMatrix()
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return out
}

// Add returns m + other.
func (m *Matrix) Add(other *Matrix) *Matrix {
	MustMatch("add", m.Dim(), other.Dim())
	var out mat.Dense
	out.Add(m.dense, other.dense)
	return wrap(&out)
}

// Sub returns m - other.
func (m *Matrix) Sub(other *Matrix) *Matrix {
	MustMatch("sub", m.Dim(), other.Dim())
	var out mat.Dense
	out.Sub(m.dense, other.dense)
	return wrap(&out)
}

// CwiseProduct returns the elementwise (Hadamard) product m ⊙ other.
func (m *Matrix) CwiseProduct(other *Matrix) *Matrix {
	MustMatch("cwise product", m.Dim(), other.Dim())
	var out mat.Dense
	out.MulElem(m.dense, other.dense)
	return wrap(&out)
}

// Scale returns s * m.
func (m *Matrix) Scale(s float64) *Matrix {
	var out mat.Dense
	out.Scale(s, m.dense)
	return wrap(&out)
}

// Mul returns the matrix product m · other.
// Panics with ErrDimMismatch unless m.Cols() == other.Rows().
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.Cols() != other.Rows() {
		panic(errors.Wrapf(ErrDimMismatch, "mul: %s * %s", m.Dim(), other.Dim()))
	}
	var out mat.Dense
	out.Mul(m.dense, other.dense)
	return wrap(&out)
}

// T returns the transpose as a new matrix.
func (m *Matrix) T() *Matrix {
	return wrap(mat.DenseCopyOf(m.dense.T()))
}

// SquaredNorm returns the squared Frobenius norm: the sum of squared elements.
func (m *Matrix) SquaredNorm() float64 {
	data := m.Data()
	return floats.Dot(data, data)
}

// Sum returns the sum of all elements.
func (m *Matrix) Sum() float64 {
	return mat.Sum(m.dense)
}

// Apply returns a new matrix with fn applied to every element.
func (m *Matrix) Apply(fn func(v float64) float64) *Matrix {
	src := m.Data()
	dst := make([]float64, len(src))
	parallel.ForRange(len(src), func(s, e int) {
		for k := s; k < e; k++ {
			dst[k] = fn(src[k])
		}
	}, kernelConfig)
	return FromSlice(m.Rows(), m.Cols(), dst)
}

// ZipApply returns a new matrix with fn(m[i,j], other[i,j]) for every element.
func (m *Matrix) ZipApply(other *Matrix, fn func(a, b float64) float64) *Matrix {
	MustMatch("zip", m.Dim(), other.Dim())
	a, b := m.Data(), other.Data()
	dst := make([]float64, len(a))
	parallel.ForRange(len(a), func(s, e int) {
		for k := s; k < e; k++ {
			dst[k] = fn(a[k], b[k])
		}
	}, kernelConfig)
	return FromSlice(m.Rows(), m.Cols(), dst)
}

// AddInPlace adds other into m, leaving other untouched. It is meant for
// accumulators and matrices the caller owns exclusively.
func (m *Matrix) AddInPlace(other *Matrix) {
	MustMatch("add in place", m.Dim(), other.Dim())
	m.dense.Add(m.dense, other.dense)
}

// CopyFrom overwrites m with the values of other.
func (m *Matrix) CopyFrom(other *Matrix) {
	MustMatch("copy", m.Dim(), other.Dim())
	m.dense.Copy(other.dense)
}

// Zero sets every element to 0.
func (m *Matrix) Zero() {
	m.dense.Zero()
}

// Equal reports whether m and other have the same dim and identical elements.
func (m *Matrix) Equal(other *Matrix) bool {
	return m.Dim().Equal(other.Dim()) && mat.Equal(m.dense, other.dense)
}

// EqualApprox reports whether m and other have the same dim and all
// elements within tol, absolute or relative.
func (m *Matrix) EqualApprox(other *Matrix, tol float64) bool {
	return m.Dim().Equal(other.Dim()) && mat.EqualApprox(m.dense, other.dense, tol)
}

// String renders the matrix for debugging.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.dense, mat.Squeeze()))
}
