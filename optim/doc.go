// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that train the parameters of a
// finalized graph whose root is a scalar loss.
//
// # Overview
//
// This package contains:
//   - SGD: batch gradient descent with optional Bernoulli sub-sampling
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface shared by both
//
// # Basic Usage
//
//	g := buildLossGraph() // finalized, last node is the scalar loss
//	opt, err := optim.NewAdam(g, optim.AdamConfig{})
//	if err != nil {
//	    return err
//	}
//	for step := 1; step <= steps; step++ {
//	    if err := opt.Iter(step, batch, 0.001); err != nil {
//	        return err
//	    }
//	}
//
// Each Iter zeroes the accumulators, runs a forward and backward pass per
// example, averages the summed gradients over the examples processed and
// updates every Parameter node.
package optim
