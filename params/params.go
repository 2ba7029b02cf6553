// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package params provides the storage of trainable and constant matrices
// that leaf edges read by handle.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	store := params.NewStore()
//	w := store.AddParameters("W", params.Xavier(rng, 8, 4))
//	x := store.AddConst("x", tensor.Zeros(4, 1))
//	emb := store.AddLookup("E", rows)
package params

import (
	"math/rand/v2"

	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
)

// Store owns every matrix of a model and its gradient accumulators.
type Store = params.Store

// Parameters is a trainable matrix with its gradient.
type Parameters = params.Parameters

// ConstParameters is a non-trainable matrix.
type ConstParameters = params.ConstParameters

// LookupParameters is a table of trainable entries, one selected per lookup.
type LookupParameters = params.LookupParameters

// Handles into a Store.
type (
	ParamID  = params.ParamID
	ConstID  = params.ConstID
	LookupID = params.LookupID
)

// ErrUnknownHandle is raised when a handle does not belong to the store.
var ErrUnknownHandle = params.ErrUnknownHandle

// NewStore creates an empty store.
func NewStore() *Store {
	return params.NewStore()
}

// Xavier returns a rows x cols matrix with Glorot-uniform entries.
func Xavier(rng *rand.Rand, rows, cols int) *tensor.Matrix {
	return params.Xavier(rng, rows, cols)
}

// Uniform returns a rows x cols matrix with entries in [-bound, bound).
func Uniform(rng *rand.Rand, rows, cols int, bound float64) *tensor.Matrix {
	return params.Uniform(rng, rows, cols, bound)
}
