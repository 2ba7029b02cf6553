package tensor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// New creates a zero-filled matrix of the given dim.
func New(dim Dim) *Matrix {
	if err := dim.Validate(); err != nil {
		panic(err)
	}
	return wrap(mat.NewDense(dim.Rows, dim.Cols, nil))
}

// Zeros creates a zero-filled rows x cols matrix.
func Zeros(rows, cols int) *Matrix {
	return New(Dim{Rows: rows, Cols: cols})
}

// Full creates a rows x cols matrix with every element set to v.
func Full(rows, cols int, v float64) *Matrix {
	m := Zeros(rows, cols)
	raw := m.dense.RawMatrix()
	for k := range raw.Data {
		raw.Data[k] = v
	}
	return m
}

// Ones creates a rows x cols matrix of ones.
func Ones(rows, cols int) *Matrix {
	return Full(rows, cols, 1)
}

// Identity creates the n x n identity matrix.
func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.dense.Set(i, i, 1)
	}
	return m
}

// Scalar creates a 1x1 matrix holding v.
func Scalar(v float64) *Matrix {
	return FromSlice(1, 1, []float64{v})
}

// FromSlice creates a rows x cols matrix from row-major data.
// The data is copied.
func FromSlice(rows, cols int, data []float64) *Matrix {
	dim := Dim{Rows: rows, Cols: cols}
	if err := dim.Validate(); err != nil {
		panic(err)
	}
	if len(data) != dim.Size() {
		panic(errors.Wrapf(ErrDimMismatch, "data length %d does not match %s", len(data), dim))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return wrap(mat.NewDense(rows, cols, buf))
}

// FromRows creates a matrix from a slice of equally sized rows.
func FromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		panic(errors.Wrap(ErrInvalidDim, "no rows"))
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			panic(errors.Wrapf(ErrDimMismatch, "row %d has %d columns, want %d", i, len(row), cols))
		}
		data = append(data, row...)
	}
	return FromSlice(len(rows), cols, data)
}

// ColumnVector creates a len(values) x 1 matrix.
func ColumnVector(values ...float64) *Matrix {
	return FromSlice(len(values), 1, values)
}
