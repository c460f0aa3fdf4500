// Package trainer drives classifier training: epochs of shuffled
// mini-batches fed to an optimizer, periodic checkpoints and evaluation.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/graphgrad/internal/checkpoint"
	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/model"
	"github.com/born-ml/graphgrad/internal/optim"
)

// ErrInvalidOptions is returned by New for out-of-range options.
var ErrInvalidOptions = errors.New("invalid trainer options")

// Dataset is an indexed source of examples.
type Dataset interface {
	Len() int
	Input(i int) graph.Input
}

// Options controls a training run.
type Options struct {
	Epochs          int
	BatchSize       int
	LearningRate    float64
	Shuffle         bool
	Seed            uint64       // Seed for shuffling
	LogEvery        int          // Steps between progress records, 0 disables them
	EvalLimit       int          // Max examples per evaluation, 0 for all
	CheckpointDir   string       // Empty disables checkpoints
	CheckpointEvery int          // Steps between checkpoints
	Logger          *slog.Logger // Default: slog.Default()
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int
	Steps    int // Global step count at the end of the epoch
	Train    model.Metrics
	Test     model.Metrics
	Duration time.Duration
}

// Trainer runs epochs of optimizer iterations over a dataset.
type Trainer struct {
	model  *model.Classifier
	opt    optim.Optimizer
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger
	runID  string
	step   int
}

// New creates a trainer for c driven by opt.
func New(c *model.Classifier, opt optim.Optimizer, opts Options) (*Trainer, error) {
	switch {
	case opts.Epochs <= 0:
		return nil, fmt.Errorf("epochs %d: %w", opts.Epochs, ErrInvalidOptions)
	case opts.BatchSize <= 0:
		return nil, fmt.Errorf("batch size %d: %w", opts.BatchSize, ErrInvalidOptions)
	case opts.LearningRate <= 0:
		return nil, fmt.Errorf("learning rate %v: %w", opts.LearningRate, ErrInvalidOptions)
	case opts.CheckpointDir != "" && opts.CheckpointEvery <= 0:
		return nil, fmt.Errorf("checkpoint interval %d: %w", opts.CheckpointEvery, ErrInvalidOptions)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()

	return &Trainer{
		model:  c,
		opt:    opt,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d)),
		logger: logger.With("run", runID),
		runID:  runID,
	}, nil
}

// RunID identifies this trainer in log records.
func (t *Trainer) RunID() string {
	return t.runID
}

// Step returns the number of optimizer iterations run so far.
func (t *Trainer) Step() int {
	return t.step
}

// Run trains for the configured number of epochs. test may be nil.
// Cancelling ctx stops training between steps; parameters keep the values
// of the last completed step.
func (t *Trainer) Run(ctx context.Context, train, test Dataset) ([]EpochStats, error) {
	if train.Len() == 0 {
		return nil, fmt.Errorf("training set: %w", optim.ErrEmptyBatch)
	}

	t.logger.Info("training started",
		"examples", train.Len(),
		"epochs", t.opts.Epochs,
		"batch_size", t.opts.BatchSize,
		"parameters", countParameters(t.model))

	stats := make([]EpochStats, 0, t.opts.Epochs)
	for epoch := 1; epoch <= t.opts.Epochs; epoch++ {
		s, err := t.runEpoch(ctx, epoch, train, test)
		if err != nil {
			return stats, err
		}
		stats = append(stats, s)
	}

	if err := t.saveCheckpoint(); err != nil {
		return stats, err
	}
	t.logger.Info("training finished", "steps", t.step)
	return stats, nil
}

func (t *Trainer) runEpoch(ctx context.Context, epoch int, train, test Dataset) (EpochStats, error) {
	start := time.Now()

	order := make([]int, train.Len())
	for i := range order {
		order[i] = i
	}
	if t.opts.Shuffle {
		t.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	for lo := 0; lo < len(order); lo += t.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return EpochStats{}, fmt.Errorf("epoch %d step %d: %w", epoch, t.step, err)
		}

		hi := min(lo+t.opts.BatchSize, len(order))
		batch := make([]graph.Input, 0, hi-lo)
		for _, idx := range order[lo:hi] {
			batch = append(batch, train.Input(idx))
		}

		t.step++
		if err := t.opt.Iter(t.step, batch, t.opts.LearningRate); err != nil {
			return EpochStats{}, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		if t.opts.LogEvery > 0 && t.step%t.opts.LogEvery == 0 {
			t.logger.Info("progress",
				"epoch", epoch,
				"step", t.step,
				"seen", hi,
				"example_loss", t.model.Loss.Value().Data()[0])
		}
		if t.opts.CheckpointDir != "" && t.step%t.opts.CheckpointEvery == 0 {
			if err := t.saveCheckpoint(); err != nil {
				return EpochStats{}, err
			}
		}
	}

	s := EpochStats{Epoch: epoch, Steps: t.step}
	var err error
	if s.Train, err = t.evaluate(train); err != nil {
		return EpochStats{}, fmt.Errorf("evaluate training set: %w", err)
	}
	if test != nil {
		if s.Test, err = t.evaluate(test); err != nil {
			return EpochStats{}, fmt.Errorf("evaluate test set: %w", err)
		}
	}
	s.Duration = time.Since(start)

	t.logger.Info("epoch finished",
		"epoch", epoch,
		"steps", t.step,
		"train_loss", s.Train.Loss,
		"train_accuracy", s.Train.Accuracy,
		"test_accuracy", s.Test.Accuracy,
		"duration", s.Duration)
	return s, nil
}

// evaluate scores up to EvalLimit examples of ds.
func (t *Trainer) evaluate(ds Dataset) (model.Metrics, error) {
	n := ds.Len()
	if t.opts.EvalLimit > 0 {
		n = min(n, t.opts.EvalLimit)
	}
	inputs := make([]graph.Input, n)
	for i := range inputs {
		inputs[i] = ds.Input(i)
	}
	return t.model.Evaluate(inputs)
}

func (t *Trainer) saveCheckpoint() error {
	if t.opts.CheckpointDir == "" {
		return nil
	}
	if err := checkpoint.Save(t.opts.CheckpointDir, t.model.Params); err != nil {
		return fmt.Errorf("checkpoint at step %d: %w", t.step, err)
	}
	t.logger.Debug("checkpoint saved", "dir", t.opts.CheckpointDir, "step", t.step)
	return nil
}

func countParameters(c *model.Classifier) int {
	total := 0
	for _, p := range c.Params {
		total += p.Value().Size()
	}
	return total
}
