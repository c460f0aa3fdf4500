package config

// fileConfig mirrors Config with every field optional. gohcl zeroes
// absent blocks, so pointers tell "unset" apart from an explicit zero.
type fileConfig struct {
	Data       *fileData       `hcl:"data,block"`
	Model      *fileModel      `hcl:"model,block"`
	Optimizer  *fileOptimizer  `hcl:"optimizer,block"`
	Training   *fileTraining   `hcl:"training,block"`
	Checkpoint *fileCheckpoint `hcl:"checkpoint,block"`
}

type fileData struct {
	Dir       *string `hcl:"dir,optional"`
	Limit     *int    `hcl:"limit,optional"`
	TestLimit *int    `hcl:"test_limit,optional"`
}

type fileModel struct {
	Hidden    []int    `hcl:"hidden,optional"`
	InitScale *float64 `hcl:"init_scale,optional"`
	Seed      *uint64  `hcl:"seed,optional"`
}

type fileOptimizer struct {
	Name         *string  `hcl:"name,optional"`
	LearningRate *float64 `hcl:"learning_rate,optional"`
	Beta1        *float64 `hcl:"beta1,optional"`
	Beta2        *float64 `hcl:"beta2,optional"`
	Epsilon      *float64 `hcl:"epsilon,optional"`
	SampleProb   *float64 `hcl:"sample_prob,optional"`
}

type fileTraining struct {
	Epochs    *int  `hcl:"epochs,optional"`
	BatchSize *int  `hcl:"batch_size,optional"`
	Shuffle   *bool `hcl:"shuffle,optional"`
	LogEvery  *int  `hcl:"log_every,optional"`
}

type fileCheckpoint struct {
	Dir    *string `hcl:"dir,optional"`
	Every  *int    `hcl:"every,optional"`
	Resume *bool   `hcl:"resume,optional"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// apply overlays every value present in the file onto cfg.
func (f *fileConfig) apply(cfg *Config) {
	if d := f.Data; d != nil {
		set(&cfg.Data.Dir, d.Dir)
		set(&cfg.Data.Limit, d.Limit)
		set(&cfg.Data.TestLimit, d.TestLimit)
	}
	if m := f.Model; m != nil {
		if m.Hidden != nil {
			cfg.Model.Hidden = m.Hidden
		}
		set(&cfg.Model.InitScale, m.InitScale)
		set(&cfg.Model.Seed, m.Seed)
	}
	if o := f.Optimizer; o != nil {
		set(&cfg.Optimizer.Name, o.Name)
		set(&cfg.Optimizer.LearningRate, o.LearningRate)
		set(&cfg.Optimizer.Beta1, o.Beta1)
		set(&cfg.Optimizer.Beta2, o.Beta2)
		set(&cfg.Optimizer.Epsilon, o.Epsilon)
		set(&cfg.Optimizer.SampleProb, o.SampleProb)
	}
	if t := f.Training; t != nil {
		set(&cfg.Training.Epochs, t.Epochs)
		set(&cfg.Training.BatchSize, t.BatchSize)
		set(&cfg.Training.Shuffle, t.Shuffle)
		set(&cfg.Training.LogEvery, t.LogEvery)
	}
	if c := f.Checkpoint; c != nil {
		set(&cfg.Checkpoint.Dir, c.Dir)
		set(&cfg.Checkpoint.Every, c.Every)
		set(&cfg.Checkpoint.Resume, c.Resume)
	}
}
