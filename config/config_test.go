package config

import "testing"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func valid() Config {
	c := Default()
	c.TrainingSetPath = "train.csv"
	c.ValidationSetPath = "val.csv"
	return c
}

func TestDefaultNeedsData(t *testing.T) {
	assert.True(t, errors.Is(Default().Validate(), ErrConfig))
	assert.NoError(t, valid().Validate())
}

func TestValidateCombinations(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"checkpoints without validation": func(c *Config) { c.ValidationSet = ValidationNone },
		"from-file without path":         func(c *Config) { c.ValidationSetPath = "" },
		"split without size":             func(c *Config) { c.ValidationSet = ValidationSplit },
		"split size one":                 func(c *Config) { c.ValidationSet = ValidationSplit; c.ValidationSetSize = 1 },
		"resume and transfer":            func(c *Config) { c.ContinueTraining = "a"; c.TransferLearning = "b" },
		"unknown validation":             func(c *Config) { c.ValidationSet = "holdout" },
		"experimental split":             func(c *Config) { c.ExperimentalTrainSplit = 1.5 },
		"zero classes":                   func(c *Config) { c.NumClasses = 0 },
		"zero log_freq":                  func(c *Config) { c.LogFreq = 0 },
		"unknown schedule":               func(c *Config) { c.Schedule = "cosine" },
		"plateau factor":                 func(c *Config) { c.Schedule = "plateau"; c.SchedulerFactor = 1 },
		"warmup steps":                   func(c *Config) { c.Schedule = "warmup"; c.WarmupSteps = 0 },
	} {
		c := valid()
		mutate(&c)
		assert.True(t, errors.Is(c.Validate(), ErrConfig), name)
	}

	c := valid()
	c.ValidationSet = ValidationNone
	c.SaveCheckpoints = false
	assert.NoError(t, c.Validate())
}

func TestMode(t *testing.T) {
	c := valid()
	assert.Equal(t, Fresh{}, c.Mode())
	c.ContinueTraining = "ck.ckpt"
	assert.Equal(t, Resume{Path: "ck.ckpt"}, c.Mode())
	c.ContinueTraining = ""
	c.TransferLearning = "base.ckpt"
	assert.Equal(t, Transfer{Path: "base.ckpt"}, c.Mode())
}

func TestNames(t *testing.T) {
	c := valid()
	c.ExperimentName = "lsa64--draft"
	c.NumClasses = 64
	assert.Equal(t, "lsa64_lr-0.001_Nclass-64", c.Decorated())
	assert.Equal(t, "lsa64_lr-0.001_Nclass-64", c.RunName())
	c.ExperimentalTrainSplit = 0.25
	assert.Equal(t, "lsa64_lr-0.001_Nclass-64_025", c.RunName())
	assert.Equal(t, "out-checkpoints/lsa64_lr-0.001_Nclass-64", c.CheckpointDir())
	assert.Equal(t, "out-logs/lsa64_lr-0.001_Nclass-64_025.log", c.LogFile())
}

func TestLoadAndOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "run.yaml", []byte(`
experiment_name: wlasl
num_classes: 5
lr: 0.01
validation_set: split-from-train
validation_set_size: 0.2
save_checkpoints: false
`), 0644))

	c, err := Load(fs, "run.yaml", Default())
	require.NoError(t, err)
	assert.Equal(t, "wlasl", c.ExperimentName)
	assert.Equal(t, 5, c.NumClasses)
	assert.Equal(t, 0.01, c.LearningRate)
	assert.False(t, c.SaveCheckpoints)
	assert.Equal(t, 108, c.HiddenDim)

	c, err = Override(c, map[string]string{"epochs": "7", "plot_lr": "false", "training_set_path": "t.csv"})
	require.NoError(t, err)
	assert.Equal(t, 7, c.Epochs)
	assert.False(t, c.PlotLR)
	assert.NoError(t, c.Validate())

	_, err = Override(c, map[string]string{"epochz": "7"})
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "run.yaml", []byte("learning_rate: 0.1\n"), 0644))
	_, err := Load(fs, "run.yaml", Default())
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = Load(fs, "missing.yaml", Default())
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestYAMLRoundTrip(t *testing.T) {
	c := valid()
	c.Momentum = 0.9
	b, err := c.YAML()
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "c.yaml", b, 0644))
	back, err := Load(fs, "c.yaml", Config{})
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestSave(t *testing.T) {
	c := valid()
	fs := afero.NewMemMapFs()
	require.NoError(t, c.Save(fs, "out/run/config.yaml"))
	back, err := Load(fs, "out/run/config.yaml", Config{})
	require.NoError(t, err)
	assert.Equal(t, c, back)

	err = c.Save(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out/run/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out/run")
}

func TestSnapshotHasEveryKey(t *testing.T) {
	snap, err := valid().Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, len(Keys()))
	for _, k := range Keys() {
		assert.Contains(t, snap, k)
	}
}
