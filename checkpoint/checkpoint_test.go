package checkpoint

import "bytes"
import "testing"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/tensor"

func record() *Record {
	return &Record{
		Epoch: 3,
		Model: map[string]tensor.Tensor{
			"embed.weight": {Shape: []int{2, 2}, Data: []float64{1, -2, 3.5, 0}},
			"embed.bias":   {Shape: []int{2}, Data: []float64{0.25, -0.75}},
		},
		Optimizer: learning.OptimizerState{
			LearningRate: 0.01,
			Momentum:     0.9,
			Velocity: map[string]tensor.Tensor{
				"embed.bias": {Shape: []int{2}, Data: []float64{0.1, 0.2}},
			},
		},
		Loss:         1.5,
		Schedule:     learning.ScheduleState{Name: learning.SchedulePlateau, LearningRate: 0.005, Best: 1.25, Bad: 2},
		BestAccuracy: 0.75,
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, record()))
	r, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, record(), r)
}

func TestEncodeIsStable(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, record()))
	require.NoError(t, Encode(&b, record()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestStoreSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStore(fs, "out")
	require.NoError(t, s.SaveBest(record()))
	require.NoError(t, s.SaveIndexed(0, record()))

	assert.True(t, s.Exists(BestName))
	assert.True(t, s.Exists("checkpoint_v_0.ckpt"))
	assert.False(t, s.Exists(BestName+".tmp"))

	r, err := s.Load(IndexName(0))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Epoch)
}

func TestStoreIndexed(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "out")
	assert.Equal(t, 0, s.Indexed())
	require.NoError(t, s.SaveIndexed(0, record()))
	require.NoError(t, s.SaveIndexed(1, record()))
	require.NoError(t, s.SaveIndexed(3, record()))
	assert.Equal(t, 2, s.Indexed())
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "out")
	_, err := s.Load(IndexName(4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.Contains(t, err.Error(), "checkpoint_v_4.ckpt")
}

func TestStoreLoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/"+BestName, []byte("not a checkpoint"), 0644))
	_, err := NewStore(fs, "out").Load(BestName)
	assert.True(t, errors.Is(err, ErrLoad))
}
