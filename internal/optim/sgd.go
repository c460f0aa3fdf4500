package optim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/graphgrad/internal/graph"
)

// SGD implements batch gradient descent.
//
// Update rule, with g the accumulated gradient averaged over the examples
// actually processed:
//
//	param = param - lr * g
//
// With SampleProb p < 1 each example independently takes part with
// probability p, which turns the batch into a random sub-batch.
//
// Example:
//
//	sgd, err := optim.NewSGD(g, optim.SGDConfig{SampleProb: 0.5, Seed: 1})
//	err = sgd.Iter(step, batch, 0.1)
type SGD struct {
	graph  *graph.Graph
	p      float64
	rng    *rand.Rand
	logger *slog.Logger
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	SampleProb float64      // Per-example keep probability (default: 1, range: (0, 1])
	Seed       uint64       // Seed for the sub-sampling coin flips
	Logger     *slog.Logger // Debug output (default: slog.Default())
}

// NewSGD creates a new SGD optimizer for g.
func NewSGD(g *graph.Graph, config SGDConfig) (*SGD, error) {
	if !g.Finalized() {
		return nil, graph.ErrNotFinalized
	}
	// Set defaults
	if config.SampleProb == 0 {
		config.SampleProb = 1
	}
	if config.SampleProb < 0 || config.SampleProb > 1 {
		return nil, fmt.Errorf("sample probability %v outside (0, 1]: %w", config.SampleProb, ErrInvalidConfig)
	}

	return &SGD{
		graph:  g,
		p:      config.SampleProb,
		rng:    rand.New(rand.NewPCG(config.Seed, config.Seed+1)),
		logger: loggerOrDefault(config.Logger),
	}, nil
}

// Iter runs one gradient descent iteration.
func (s *SGD) Iter(step int, batch []graph.Input, lr float64) error {
	var keep func() bool
	if s.p < 1 {
		keep = func() bool { return s.rng.Float64() < s.p }
	}

	processed, err := accumulate(s.graph, batch, keep)
	if err != nil {
		return fmt.Errorf("sgd step %d: %w", step, err)
	}

	scale := -lr / float64(processed)
	for _, param := range s.graph.Parameters() {
		// param -= lr * acc / processed
		floats.AddScaled(param.Value().Data(), scale, param.Accumulator().Data())
	}

	s.logger.Debug("sgd step", "step", step, "batch", len(batch), "processed", processed, "lr", lr)
	return nil
}

// SampleProb returns the per-example keep probability.
func (s *SGD) SampleProb() float64 {
	return s.p
}
