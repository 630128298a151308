package trainer

import "math/rand"
import "testing"

import "github.com/spf13/afero"
import "github.com/stretchr/testify/require"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/datasets"

var signs = []string{"hello", "thanks", "yes"}

// synthetic returns perClass samples of every sign. Frames of class c are
// centred on 2c-2 so the classes are easy to separate.
func synthetic(perClass int, rng *rand.Rand) datasets.Partition {
	var samples []datasets.Sample
	for i := 0; i < perClass; i++ {
		for c := range signs {
			frames := make([][]float64, 4)
			for f := range frames {
				frames[f] = []float64{
					float64(2*c-2) + 0.3*rng.NormFloat64(),
					float64(c) + 0.3*rng.NormFloat64(),
				}
			}
			samples = append(samples, datasets.Sample{Frames: frames, Label: c})
		}
	}
	return datasets.NewPartition(samples, signs, true)
}

// testEnv writes train, validation and test files and returns a config using them
func testEnv(t *testing.T) (config.Config, Env) {
	fs := afero.NewMemMapFs()
	rng := rand.New(rand.NewSource(1))
	require.NoError(t, datasets.Save(fs, "data/train.csv", synthetic(10, rng)))
	require.NoError(t, datasets.Save(fs, "data/val.csv", synthetic(3, rng)))
	require.NoError(t, datasets.Save(fs, "data/test.csv", synthetic(4, rng)))

	cfg := config.Default()
	cfg.ExperimentName = "unit"
	cfg.NumClasses = len(signs)
	cfg.HiddenDim = 8
	cfg.Seed = 7
	cfg.TrainingSetPath = "data/train.csv"
	cfg.ValidationSetPath = "data/val.csv"
	cfg.TestingSetPath = "data/test.csv"
	cfg.Epochs = 5
	cfg.LearningRate = 0.05
	cfg.PlotStats = false
	cfg.PlotLR = false
	cfg.OutDir = "out"
	cfg.ImgDir = "img"

	return cfg, Env{Fs: fs, Log: zap.NewNop(), Threads: 2}
}
