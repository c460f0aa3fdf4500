package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/graphgrad/internal/checkpoint"
	"github.com/born-ml/graphgrad/internal/config"
	"github.com/born-ml/graphgrad/internal/mnist"
	"github.com/born-ml/graphgrad/internal/model"
	"github.com/born-ml/graphgrad/internal/trainer"
)

func newTrainCmd() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train the digit classifier on an MNIST-style dataset",
		Args:  cobra.NoArgs,
		RunE:  trainHandler,
	}

	trainCmd.Flags().String("data", "", "Dataset directory with IDX files (env GRAPHGRAD_DATA)")
	trainCmd.Flags().Int("limit", 0, "Max training samples, 0 for all")
	trainCmd.Flags().Int("test-limit", 0, "Max test samples, 0 for all")
	trainCmd.Flags().Int("epochs", 0, "Number of epochs")
	trainCmd.Flags().Int("batch-size", 0, "Examples per optimizer step")
	trainCmd.Flags().Float64("lr", 0, "Learning rate")
	trainCmd.Flags().String("optimizer", "", "Optimizer: adam or sgd")
	trainCmd.Flags().Float64("sample-prob", 0, "SGD per-example keep probability")
	trainCmd.Flags().Uint64("seed", 0, "Random seed (env GRAPHGRAD_SEED)")
	trainCmd.Flags().String("checkpoint-dir", "", "Directory for parameter snapshots")
	trainCmd.Flags().Int("checkpoint-every", 0, "Steps between snapshots")
	trainCmd.Flags().Bool("resume", false, "Restore parameters from the checkpoint directory")
	trainCmd.Flags().Bool("no-checkpoint", false, "Disable parameter snapshots")

	return trainCmd
}

// applyTrainFlags overrides cfg with every flag set on the command line.
func applyTrainFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var errs []error
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if flags.Changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	float := func(name string, dst *float64) {
		if flags.Changed(name) {
			v, err := flags.GetFloat64(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Changed(name) {
			v, err := flags.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	str("data", &cfg.Data.Dir)
	integer("limit", &cfg.Data.Limit)
	integer("test-limit", &cfg.Data.TestLimit)
	integer("epochs", &cfg.Training.Epochs)
	integer("batch-size", &cfg.Training.BatchSize)
	float("lr", &cfg.Optimizer.LearningRate)
	str("optimizer", &cfg.Optimizer.Name)
	float("sample-prob", &cfg.Optimizer.SampleProb)
	str("checkpoint-dir", &cfg.Checkpoint.Dir)
	integer("checkpoint-every", &cfg.Checkpoint.Every)
	boolean("resume", &cfg.Checkpoint.Resume)
	if flags.Changed("seed") {
		v, err := flags.GetUint64("seed")
		errs = append(errs, err)
		cfg.Model.Seed = v
	}
	if off, _ := flags.GetBool("no-checkpoint"); off {
		cfg.Checkpoint.Dir = ""
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return cfg.Validate()
}

func trainHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyTrainFlags(cmd, cfg); err != nil {
		return err
	}

	train, err := mnist.LoadDir(ctx, cfg.Data.Dir, true, cfg.Data.Limit)
	if err != nil {
		return fmt.Errorf("load training set: %w", err)
	}
	slog.Info("training set loaded", "dir", cfg.Data.Dir, "examples", train.Len())

	var test trainer.Dataset
	switch ds, err := mnist.LoadDir(ctx, cfg.Data.Dir, false, cfg.Data.TestLimit); {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("no test set found, skipping evaluation", "dir", cfg.Data.Dir)
	case err != nil:
		return fmt.Errorf("load test set: %w", err)
	default:
		test = ds
		slog.Info("test set loaded", "examples", ds.Len())
	}

	c, err := model.NewClassifier(model.Config{
		Inputs:    train.Pixels(),
		Classes:   mnist.Classes,
		Hidden:    cfg.Model.Hidden,
		InitScale: cfg.Model.InitScale,
		Seed:      cfg.Model.Seed,
	})
	if err != nil {
		return err
	}

	switch {
	case !cfg.Checkpoint.Resume:
	case !checkpoint.Exists(cfg.Checkpoint.Dir, c.Params):
		slog.Warn("no checkpoint to resume from, starting fresh", "dir", cfg.Checkpoint.Dir)
	default:
		if err := checkpoint.Load(cfg.Checkpoint.Dir, c.Params); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		slog.Info("parameters restored", "dir", cfg.Checkpoint.Dir)
	}

	opt, err := trainer.NewOptimizer(c.Graph, cfg.Optimizer, cfg.Model.Seed, slog.Default())
	if err != nil {
		return err
	}

	tr, err := trainer.New(c, opt, trainer.Options{
		Epochs:          cfg.Training.Epochs,
		BatchSize:       cfg.Training.BatchSize,
		LearningRate:    cfg.Optimizer.LearningRate,
		Shuffle:         cfg.Training.Shuffle,
		Seed:            cfg.Model.Seed,
		LogEvery:        progressInterval(cfg),
		CheckpointDir:   cfg.Checkpoint.Dir,
		CheckpointEvery: cfg.Checkpoint.Every,
	})
	if err != nil {
		return err
	}

	stats, err := tr.Run(ctx, train, test)
	if len(stats) > 0 {
		trainer.WriteSummary(cmd.OutOrStdout(), stats)
	}
	return err
}
