package trainer

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"
import "github.com/neurlang/seqtrain/seed"
import "github.com/neurlang/seqtrain/tracker"

// Env are the collaborators of a run that do not come from the configuration
type Env struct {
	Fs      afero.Fs
	Log     *zap.Logger
	Tracker *tracker.Multi
	Threads int
}

// Partitions are the datasets of a run
type Partitions struct {
	Train      datasets.Partition
	Validation *datasets.Partition
	Test       *datasets.Partition
}

// LoadPartitions loads the datasets and applies the configured splits. Class
// names come from the training file, the other files must not add classes.
func LoadPartitions(cfg config.Config, fs afero.Fs, seeder *seed.Seeder) (*Partitions, error) {
	train, err := datasets.Load(fs, cfg.TrainingSetPath, nil, true)
	if err != nil {
		return nil, err
	}
	if train.Classes() > cfg.NumClasses {
		return nil, errors.Wrapf(config.ErrConfig, "%s has %d classes, num_classes is %d",
			cfg.TrainingSetPath, train.Classes(), cfg.NumClasses)
	}
	o := &Partitions{}
	switch cfg.ValidationSet {
	case config.ValidationFromFile:
		val, err := datasets.Load(fs, cfg.ValidationSetPath, train.Labels, false)
		if err != nil {
			return nil, err
		}
		if err := sameWidth(cfg.ValidationSetPath, val, train.Dim()); err != nil {
			return nil, err
		}
		o.Validation = &val
	case config.ValidationSplit:
		var val datasets.Partition
		train, val, err = datasets.BalancedSplit(train, cfg.ValidationSetSize, seeder.Rand(seed.Split, 0))
		if err != nil {
			return nil, err
		}
		o.Validation = &val
	}
	if cfg.TestingSetPath != "" {
		test, err := datasets.Load(fs, cfg.TestingSetPath, train.Labels, false)
		if err != nil {
			return nil, err
		}
		if err := sameWidth(cfg.TestingSetPath, test, train.Dim()); err != nil {
			return nil, err
		}
		o.Test = &test
	}
	if cfg.ExperimentalTrainSplit != 0 {
		if train, err = datasets.FractionalSplit(train, cfg.ExperimentalTrainSplit); err != nil {
			return nil, err
		}
	}
	o.Train = train
	return o, nil
}

// sameWidth rejects a partition whose frames are not width values wide
func sameWidth(path string, p datasets.Partition, width int) error {
	if d := p.Dim(); d != 0 && d != width {
		return errors.Wrapf(datasets.ErrFormat, "%s has frames of width %d, the training set has %d", path, d, width)
	}
	return nil
}

// HyperParameters derives the optimizer settings from cfg
func HyperParameters(cfg config.Config, threads int) learning.HyperParameters {
	hp := learning.Default()
	hp.LearningRate = cfg.LearningRate
	hp.Momentum = cfg.Momentum
	hp.LabelSmoothing = cfg.LabelSmoothing
	hp.BatchSize = cfg.BatchSize
	if threads > 0 {
		hp.Threads = threads
	}
	return hp
}

// Prepare validates cfg and builds everything a run needs: partitions, model
// state, schedule and checkpoint policy.
func Prepare(cfg config.Config, env Env) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seeder := seed.New(cfg.Seed)
	parts, err := LoadPartitions(cfg, env.Fs, seeder)
	if err != nil {
		return nil, err
	}

	dims := feedforward.Dims{
		Input:   parts.Train.Dim(),
		Hidden:  cfg.HiddenDim,
		Classes: cfg.NumClasses,
	}
	if dims.Input == 0 {
		return nil, errors.Wrapf(datasets.ErrFormat, "%s holds no frames", cfg.TrainingSetPath)
	}
	hp := HyperParameters(cfg, env.Threads)
	schedule, err := learning.NewSchedule(cfg.ScheduleConfig())
	if err != nil {
		return nil, errors.Wrap(config.ErrConfig, err.Error())
	}

	st, err := Acquire(cfg.Mode(), dims, hp, checkpoint.NewStore(env.Fs, ""), seeder)
	if err != nil {
		return nil, err
	}
	env.Log.Info("model acquired",
		zap.String("mode", modeName(st.Mode)),
		zap.Int("trainable_params", st.TrainableCount()),
		zap.Strings("trainable", st.Trainable),
		zap.Int("start_epoch", st.Epoch))

	out := checkpoint.NewStore(env.Fs, cfg.CheckpointDir())
	policy := NewPolicy(env.Fs, out, cfg.SaveCheckpoints, cfg.NumClasses, env.Tracker, env.Log)
	if _, ok := st.Mode.(config.Resume); ok {
		if r, ok := schedule.(learning.Resumable); ok && r.Restore(st.Schedule) {
			env.Log.Info("schedule restored", zap.Float64("lr", st.Schedule.LearningRate))
		}
		policy.Continue(st.BestAccuracy, out.Indexed())
		env.Log.Info("checkpoint policy continued",
			zap.Float64("best_accuracy", policy.Best()),
			zap.Int("checkpoints", policy.Count()))
	}
	noise := datasets.GaussianNoise{Mean: cfg.GaussianMean, Std: cfg.GaussianStd}
	return &Orchestrator{
		Config:     cfg,
		Fs:         env.Fs,
		State:      st,
		Train:      datasets.NewLoader(&parts.Train, cfg.BatchSize, true, noise, seeder),
		Validation: parts.Validation,
		Test:       parts.Test,
		Schedule:   schedule,
		Policy:     policy,
		Sweep:      Sweep{Store: out, Dims: dims, HP: hp, Log: env.Log},
		Tracker:    env.Tracker,
		HP:         hp,
		Log:        env.Log,
	}, nil
}

func modeName(m config.Mode) string {
	switch m.(type) {
	case config.Resume:
		return "resume"
	case config.Transfer:
		return "transfer"
	}
	return "fresh"
}
