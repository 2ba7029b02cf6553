// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides update rules for training edges graphs.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// An optimizer updates every trainable matrix of a params.Store, and of each
// lookup table only the entries that received a gradient since the last
// ZeroGrad.
//
// # Training Loop Pattern
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//	for epoch := range numEpochs {
//	    for _, example := range data {
//	        // 1. Load the example into the graph inputs
//	        store.SetConst(x, example.Input)
//
//	        // 2. Forward and backward pass
//	        g.Forward()
//	        g.Backward()
//
//	        // 3. Update parameters and reset gradients
//	        opt.Step(store)
//	        store.ZeroGrad()
//	    }
//	}
package optim
