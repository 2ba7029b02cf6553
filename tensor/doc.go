// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 matrices that flow between edges.
//
// # Overview
//
// Every value in an edges computation is a 2-D matrix of float64:
//   - Matrix: row-major dense matrix backed by gonum
//   - Dim: (rows, cols) shape; column vectors are (n, 1), scalars (1, 1)
//
// # Basic Usage
//
//	import "github.com/born-ml/edges/tensor"
//
//	func main() {
//	    w := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
//	    x := tensor.ColumnVector(1, -1)
//	    y := w.Mul(x)            // (2, 1)
//	    fmt.Println(y.Dim(), y)  // {2,1}
//	}
//
// # Contract Violations
//
// Shape mismatches and out-of-range indices are programming errors: they
// panic with an error wrapping ErrDimMismatch, ErrInvalidDim or
// ErrIndexOutOfRange, which errors.Is recognizes after recovery.
//
// # Parallelism
//
// Elementwise kernels (Apply, ZipApply) split large matrices across
// goroutines. SetParallelism changes the package-wide configuration:
//
//	tensor.SetParallelism(tensor.ParallelConfig{}) // sequential
package tensor
