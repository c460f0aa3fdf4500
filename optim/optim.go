// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/optim"
)

// Optimizer runs training iterations over batches of inputs.
type Optimizer = optim.Optimizer

// SGD (Stochastic Gradient Descent)

// SGD represents the batch gradient descent optimizer.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer for a finalized graph.
//
// Example:
//
//	sgd, err := optim.NewSGD(g, optim.SGDConfig{SampleProb: 0.5, Seed: 1})
func NewSGD(g *graph.Graph, config SGDConfig) (*SGD, error) {
	return optim.NewSGD(g, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer for a finalized graph.
//
// Example:
//
//	adam, err := optim.NewAdam(g, optim.AdamConfig{
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam(g *graph.Graph, config AdamConfig) (*Adam, error) {
	return optim.NewAdam(g, config)
}

// Errors.
var (
	ErrEmptyBatch    = optim.ErrEmptyBatch
	ErrInvalidStep   = optim.ErrInvalidStep
	ErrInvalidConfig = optim.ErrInvalidConfig
)
