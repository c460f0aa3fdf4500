// Package config loads training configuration from HCL files.
//
// Every block and attribute is optional; anything left out keeps its
// Default value.
//
//	data {
//	  dir   = "data/mnist"
//	  limit = 10000
//	}
//
//	model {
//	  hidden     = [300, 100]
//	  init_scale = 0.05
//	}
//
//	optimizer {
//	  name          = "adam"
//	  learning_rate = 0.001
//	}
//
//	training {
//	  epochs     = 3
//	  batch_size = 32
//	}
//
//	checkpoint {
//	  dir   = "checkpoints"
//	  every = 1000
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Optimizer names.
const (
	OptimizerAdam = "adam"
	OptimizerSGD  = "sgd"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is a fully resolved training configuration.
type Config struct {
	Data       DataConfig
	Model      ModelConfig
	Optimizer  OptimizerConfig
	Training   TrainingConfig
	Checkpoint CheckpointConfig
}

// DataConfig locates the dataset.
type DataConfig struct {
	Dir       string // Directory holding the IDX files
	Limit     int    // Max training samples, 0 for all
	TestLimit int    // Max evaluation samples, 0 for all
}

// ModelConfig shapes the classifier.
type ModelConfig struct {
	Hidden    []int   // Hidden layer widths
	InitScale float64 // Coefficient for normal initialization
	Seed      uint64  // Seed for initialization and shuffling
}

// OptimizerConfig selects and tunes the optimizer.
type OptimizerConfig struct {
	Name         string
	LearningRate float64
	Beta1        float64 // Adam only
	Beta2        float64 // Adam only
	Epsilon      float64 // Adam only
	SampleProb   float64 // SGD only
}

// TrainingConfig controls the training loop.
type TrainingConfig struct {
	Epochs    int
	BatchSize int
	Shuffle   bool
	LogEvery  int // Steps between progress records
}

// CheckpointConfig controls periodic parameter snapshots.
type CheckpointConfig struct {
	Dir    string // Empty disables checkpoints
	Every  int    // Steps between snapshots
	Resume bool   // Restore parameters from Dir when a full snapshot exists
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data/mnist",
		},
		Model: ModelConfig{
			Hidden:    []int{300, 100},
			InitScale: 0.05,
			Seed:      1,
		},
		Optimizer: OptimizerConfig{
			Name:         OptimizerAdam,
			LearningRate: 0.001,
			Beta1:        0.9,
			Beta2:        0.999,
			Epsilon:      1e-8,
			SampleProb:   1,
		},
		Training: TrainingConfig{
			Epochs:    1,
			BatchSize: 32,
			Shuffle:   true,
			LogEvery:  100,
		},
		Checkpoint: CheckpointConfig{
			Dir:   "checkpoints",
			Every: 1000,
		},
	}
}

// Load reads and validates an HCL configuration file.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: config path comes from the command line
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source on top of Default and validates the result.
// filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := Default()
	raw.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Data.Dir != "", "data.dir is empty")
	check(c.Data.Limit >= 0, "data.limit %d is negative", c.Data.Limit)
	check(c.Data.TestLimit >= 0, "data.test_limit %d is negative", c.Data.TestLimit)

	check(len(c.Model.Hidden) > 0, "model.hidden is empty")
	for i, h := range c.Model.Hidden {
		check(h > 0, "model.hidden[%d] = %d must be positive", i, h)
	}
	check(c.Model.InitScale > 0, "model.init_scale %v must be positive", c.Model.InitScale)

	o := c.Optimizer
	check(slices.Contains([]string{OptimizerAdam, OptimizerSGD}, o.Name),
		"optimizer.name %q is not %q or %q", o.Name, OptimizerAdam, OptimizerSGD)
	check(o.LearningRate > 0, "optimizer.learning_rate %v must be positive", o.LearningRate)
	check(o.Beta1 >= 0 && o.Beta1 < 1, "optimizer.beta1 %v outside [0, 1)", o.Beta1)
	check(o.Beta2 >= 0 && o.Beta2 < 1, "optimizer.beta2 %v outside [0, 1)", o.Beta2)
	check(o.Epsilon >= 0, "optimizer.epsilon %v is negative", o.Epsilon)
	check(o.SampleProb > 0 && o.SampleProb <= 1, "optimizer.sample_prob %v outside (0, 1]", o.SampleProb)

	check(c.Training.Epochs > 0, "training.epochs %d must be positive", c.Training.Epochs)
	check(c.Training.BatchSize > 0, "training.batch_size %d must be positive", c.Training.BatchSize)
	check(c.Training.LogEvery >= 0, "training.log_every %d is negative", c.Training.LogEvery)

	check(c.Checkpoint.Every > 0, "checkpoint.every %d must be positive", c.Checkpoint.Every)
	check(!c.Checkpoint.Resume || c.Checkpoint.Dir != "", "checkpoint.resume needs checkpoint.dir")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
