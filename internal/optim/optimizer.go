// Package optim implements gradient-based optimizers that train the
// parameters of a graph.Graph.
//
// This package provides:
//   - Optimizer interface: one training iteration over a batch
//   - SGD: batch gradient descent with optional Bernoulli sub-sampling
//   - Adam: Adaptive Moment Estimation with bias correction
//
// Every iteration follows the same schedule:
//  1. Zero every node's accumulator
//  2. For each example: Compute, Backward from the root, add adjoints into
//     the accumulators
//  3. Average the accumulators over the processed examples and update the
//     Parameter nodes
//
// Example usage:
//
//	opt, err := optim.NewAdam(g, optim.AdamConfig{})
//	for step := 1; step <= steps; step++ {
//	    if err := opt.Iter(step, batch, 0.001); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/graphgrad/internal/graph"
)

// Optimizer precondition errors.
var (
	ErrEmptyBatch    = errors.New("batch yielded no examples")
	ErrInvalidStep   = errors.New("step must be at least 1")
	ErrInvalidConfig = errors.New("invalid optimizer config")
)

// Optimizer runs training iterations on a finalized graph whose root is a
// scalar loss.
type Optimizer interface {
	// Iter runs one iteration over batch and updates every Parameter node.
	//
	// step is the 1-based iteration count. Each element of batch binds the
	// graph's placeholders for one forward pass.
	Iter(step int, batch []graph.Input, lr float64) error
}

// accumulate runs forward and backward passes over the batch and leaves
// the summed adjoints in every node's accumulator. keep, when non-nil,
// decides per example whether it takes part. It returns the number of
// examples processed.
func accumulate(g *graph.Graph, batch []graph.Input, keep func() bool) (int, error) {
	if !g.Finalized() {
		return 0, graph.ErrNotFinalized
	}
	if err := g.CheckRoot(); err != nil {
		return 0, err
	}

	g.ZeroAccumulators()

	processed := 0
	for i, example := range batch {
		if keep != nil && !keep() {
			continue
		}
		if err := g.Compute(example); err != nil {
			return processed, fmt.Errorf("example %d: %w", i, err)
		}
		if err := g.Backward(); err != nil {
			return processed, fmt.Errorf("example %d: %w", i, err)
		}
		g.AccumulateAdjoints()
		processed++
	}

	if processed == 0 {
		return 0, fmt.Errorf("%d examples offered: %w", len(batch), ErrEmptyBatch)
	}
	return processed, nil
}

// loggerOrDefault returns l, or slog.Default() when l is nil.
func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
