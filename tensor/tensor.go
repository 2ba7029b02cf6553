// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/edges/internal/parallel"
	"github.com/born-ml/edges/internal/tensor"
)

// Matrix is a dense float64 matrix.
type Matrix = tensor.Matrix

// Dim is the (rows, cols) shape of a Matrix.
type Dim = tensor.Dim

// ParallelConfig configures how elementwise kernels are split across goroutines.
type ParallelConfig = parallel.Config

// Contract violation sentinels.
var (
	ErrInvalidDim      = tensor.ErrInvalidDim
	ErrDimMismatch     = tensor.ErrDimMismatch
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
)

// NewDim returns the shape (rows, cols). Both must be positive.
func NewDim(rows, cols int) Dim {
	return tensor.NewDim(rows, cols)
}

// New creates a zero matrix of the given shape.
func New(dim Dim) *Matrix {
	return tensor.New(dim)
}

// Zeros creates a rows x cols zero matrix.
func Zeros(rows, cols int) *Matrix {
	return tensor.Zeros(rows, cols)
}

// Ones creates a rows x cols matrix of ones.
func Ones(rows, cols int) *Matrix {
	return tensor.Ones(rows, cols)
}

// Full creates a rows x cols matrix filled with v.
func Full(rows, cols int, v float64) *Matrix {
	return tensor.Full(rows, cols, v)
}

// Identity creates the n x n identity matrix.
func Identity(n int) *Matrix {
	return tensor.Identity(n)
}

// Scalar creates a 1x1 matrix.
func Scalar(v float64) *Matrix {
	return tensor.Scalar(v)
}

// FromSlice creates a rows x cols matrix from row-major data. data is copied.
//
// Example:
//
//	m := tensor.FromSlice(2, 2, []float64{1, 2, 3, 4})
func FromSlice(rows, cols int, data []float64) *Matrix {
	return tensor.FromSlice(rows, cols, data)
}

// FromRows creates a matrix from equally long rows.
func FromRows(rows [][]float64) *Matrix {
	return tensor.FromRows(rows)
}

// ColumnVector creates an (n, 1) matrix.
func ColumnVector(values ...float64) *Matrix {
	return tensor.ColumnVector(values...)
}

// DefaultParallelConfig returns the default kernel parallelism.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SetParallelism sets the package-wide kernel parallelism.
func SetParallelism(cfg ParallelConfig) {
	tensor.SetParallelism(cfg)
}
