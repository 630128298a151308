// Package config holds the experiment configuration. A Config is filled from
// defaults, then an optional YAML file, then command line overrides, validated
// once and passed around by value afterwards.
package config

import "path"
import "strconv"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/learning"

// ErrConfig reports an invalid or inconsistent configuration
var ErrConfig = errors.New("invalid configuration")

// Validation set sources
const (
	ValidationFromFile = "from-file"
	ValidationSplit    = "split-from-train"
	ValidationNone     = "none"
)

// Config is the complete experiment configuration
type Config struct {
	ExperimentName string `mapstructure:"experiment_name" yaml:"experiment_name"`
	NumClasses     int    `mapstructure:"num_classes" yaml:"num_classes"`
	HiddenDim      int    `mapstructure:"hidden_dim" yaml:"hidden_dim"`
	Seed           int64  `mapstructure:"seed" yaml:"seed"`

	TrainingSetPath        string  `mapstructure:"training_set_path" yaml:"training_set_path"`
	ValidationSetPath      string  `mapstructure:"validation_set_path" yaml:"validation_set_path"`
	TestingSetPath         string  `mapstructure:"testing_set_path" yaml:"testing_set_path"`
	ValidationSet          string  `mapstructure:"validation_set" yaml:"validation_set"`
	ValidationSetSize      float64 `mapstructure:"validation_set_size" yaml:"validation_set_size"`
	ExperimentalTrainSplit float64 `mapstructure:"experimental_train_split" yaml:"experimental_train_split"`

	Epochs          int     `mapstructure:"epochs" yaml:"epochs"`
	LearningRate    float64 `mapstructure:"lr" yaml:"lr"`
	Momentum        float64 `mapstructure:"momentum" yaml:"momentum"`
	BatchSize       int     `mapstructure:"batch_size" yaml:"batch_size"`
	LabelSmoothing  float64 `mapstructure:"label_smoothing" yaml:"label_smoothing"`
	LogFreq         int     `mapstructure:"log_freq" yaml:"log_freq"`
	SaveCheckpoints bool    `mapstructure:"save_checkpoints" yaml:"save_checkpoints"`

	Schedule          string  `mapstructure:"schedule" yaml:"schedule"`
	SchedulerFactor   float64 `mapstructure:"scheduler_factor" yaml:"scheduler_factor"`
	SchedulerPatience int     `mapstructure:"scheduler_patience" yaml:"scheduler_patience"`
	WarmupSteps       int     `mapstructure:"warmup_steps" yaml:"warmup_steps"`

	GaussianMean float64 `mapstructure:"gaussian_mean" yaml:"gaussian_mean"`
	GaussianStd  float64 `mapstructure:"gaussian_std" yaml:"gaussian_std"`

	PlotStats bool   `mapstructure:"plot_stats" yaml:"plot_stats"`
	PlotLR    bool   `mapstructure:"plot_lr" yaml:"plot_lr"`
	Device    string `mapstructure:"device" yaml:"device"`

	ContinueTraining string `mapstructure:"continue_training" yaml:"continue_training"`
	TransferLearning string `mapstructure:"transfer_learning" yaml:"transfer_learning"`

	OutDir      string `mapstructure:"out_dir" yaml:"out_dir"`
	ImgDir      string `mapstructure:"img_dir" yaml:"img_dir"`
	LogDir      string `mapstructure:"log_dir" yaml:"log_dir"`
	TrackerFile string `mapstructure:"tracker_file" yaml:"tracker_file"`
	RedisAddr   string `mapstructure:"redis_addr" yaml:"redis_addr"`
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		ExperimentName:    "seqtrain",
		NumClasses:        38,
		HiddenDim:         108,
		Seed:              379,
		ValidationSet:     ValidationFromFile,
		Epochs:            100,
		LearningRate:      0.001,
		BatchSize:         1,
		LabelSmoothing:    0.1,
		LogFreq:           1,
		SaveCheckpoints:   true,
		Schedule:          "constant",
		SchedulerFactor:   0.1,
		SchedulerPatience: 5,
		WarmupSteps:       30,
		GaussianStd:       0.001,
		PlotStats:         true,
		PlotLR:            true,
		Device:            "auto",
		OutDir:            "out-checkpoints",
		ImgDir:            "out-img",
		LogDir:            "out-logs",
	}
}

// Validate checks the configuration for values and combinations the run
// cannot honour.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ExperimentName) == "" {
		return errors.Wrap(ErrConfig, "experiment_name is empty")
	}
	if c.NumClasses < 1 {
		return errors.Wrapf(ErrConfig, "num_classes %d below 1", c.NumClasses)
	}
	if c.HiddenDim < 1 {
		return errors.Wrapf(ErrConfig, "hidden_dim %d below 1", c.HiddenDim)
	}
	if c.TrainingSetPath == "" {
		return errors.Wrap(ErrConfig, "training_set_path is empty")
	}
	switch c.ValidationSet {
	case ValidationFromFile:
		if c.ValidationSetPath == "" {
			return errors.Wrap(ErrConfig, "validation_set from-file needs validation_set_path")
		}
	case ValidationSplit:
		if !(c.ValidationSetSize > 0 && c.ValidationSetSize < 1) {
			return errors.Wrapf(ErrConfig, "validation_set_size %v outside (0, 1)", c.ValidationSetSize)
		}
	case ValidationNone:
		if c.SaveCheckpoints {
			return errors.Wrap(ErrConfig, "save_checkpoints needs a validation set, validation_set is none")
		}
	default:
		return errors.Wrapf(ErrConfig, "validation_set %q, expected from-file, split-from-train or none", c.ValidationSet)
	}
	if c.ExperimentalTrainSplit != 0 && !(c.ExperimentalTrainSplit > 0 && c.ExperimentalTrainSplit <= 1) {
		return errors.Wrapf(ErrConfig, "experimental_train_split %v outside (0, 1]", c.ExperimentalTrainSplit)
	}
	if c.Epochs < 0 {
		return errors.Wrapf(ErrConfig, "epochs %d is negative", c.Epochs)
	}
	if !(c.LearningRate > 0) {
		return errors.Wrapf(ErrConfig, "lr %v not positive", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return errors.Wrapf(ErrConfig, "momentum %v outside [0, 1)", c.Momentum)
	}
	if c.BatchSize < 1 {
		return errors.Wrapf(ErrConfig, "batch_size %d below 1", c.BatchSize)
	}
	if c.LabelSmoothing < 0 || c.LabelSmoothing >= 1 {
		return errors.Wrapf(ErrConfig, "label_smoothing %v outside [0, 1)", c.LabelSmoothing)
	}
	if c.LogFreq < 1 {
		return errors.Wrapf(ErrConfig, "log_freq %d below 1", c.LogFreq)
	}
	if c.GaussianStd < 0 {
		return errors.Wrapf(ErrConfig, "gaussian_std %v is negative", c.GaussianStd)
	}
	if err := c.ScheduleConfig().Validate(); err != nil {
		return errors.Wrap(ErrConfig, err.Error())
	}
	if c.ContinueTraining != "" && c.TransferLearning != "" {
		return errors.Wrap(ErrConfig, "continue_training and transfer_learning are both set")
	}
	return nil
}

// ScheduleConfig returns the learning rate schedule settings
func (c Config) ScheduleConfig() learning.ScheduleConfig {
	return learning.ScheduleConfig{
		Name:         c.Schedule,
		LearningRate: c.LearningRate,
		Factor:       c.SchedulerFactor,
		Patience:     c.SchedulerPatience,
		WarmupSteps:  c.WarmupSteps,
	}
}

// Decorated returns the experiment name extended with the learning rate and
// the number of classes, as used for output folders, plots and the tracker.
func (c Config) Decorated() string {
	name := strings.SplitN(c.ExperimentName, "--", 2)[0]
	return name + "_lr-" + strconv.FormatFloat(c.LearningRate, 'g', -1, 64) + "_Nclass-" + strconv.Itoa(c.NumClasses)
}

// RunName is the decorated name plus the experimental split, if any
func (c Config) RunName() string {
	if c.ExperimentalTrainSplit == 0 {
		return c.Decorated()
	}
	split := strings.Replace(strconv.FormatFloat(c.ExperimentalTrainSplit, 'g', -1, 64), ".", "", 1)
	return c.Decorated() + "_" + split
}

// CheckpointDir is the folder receiving checkpoints and result tables
func (c Config) CheckpointDir() string {
	return path.Join(c.OutDir, c.Decorated())
}

// LogFile is the append-only log of the run
func (c Config) LogFile() string {
	return path.Join(c.LogDir, c.RunName()+".log")
}
