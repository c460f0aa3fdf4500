package trainer

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/graphgrad/internal/config"
	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/optim"
)

// NewOptimizer builds the optimizer named in cfg for a finalized graph.
func NewOptimizer(g *graph.Graph, cfg config.OptimizerConfig, seed uint64, logger *slog.Logger) (optim.Optimizer, error) {
	switch cfg.Name {
	case config.OptimizerAdam:
		adam, err := optim.NewAdam(g, optim.AdamConfig{
			Betas:  [2]float64{cfg.Beta1, cfg.Beta2},
			Eps:    cfg.Epsilon,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		return adam, nil
	case config.OptimizerSGD:
		sgd, err := optim.NewSGD(g, optim.SGDConfig{
			SampleProb: cfg.SampleProb,
			Seed:       seed,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return sgd, nil
	default:
		return nil, fmt.Errorf("optimizer %q: %w", cfg.Name, optim.ErrInvalidConfig)
	}
}
