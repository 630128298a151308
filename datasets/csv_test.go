package datasets

import "testing"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

const sampleCSV = `label,frames
hello,0.5 1;1.5 2
bye,3 4
hello,5 6;7 8;9 10
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "train.csv", []byte(sampleCSV), 0644))

	p, err := Load(fs, "train.csv", nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"bye", "hello"}, p.Labels)
	assert.Equal(t, []int{1, 2}, p.Freq)
	assert.Equal(t, 2, p.Dim())
	assert.True(t, p.Augment)
	assert.Equal(t, [][]float64{{0.5, 1}, {1.5, 2}}, p.Samples[0].Frames)
	assert.Equal(t, 1, p.Samples[0].Label)
	assert.Equal(t, 0, p.Samples[1].Label)
}

func TestLoadWithLabels(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "val.csv", []byte(sampleCSV), 0644))

	p, err := Load(fs, "val.csv", []string{"hello", "bye", "other"}, false)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, p.Freq)

	_, err = Load(fs, "val.csv", []string{"hello"}, false)
	assert.True(t, errors.Is(err, ErrFormat))
	assert.Contains(t, err.Error(), `"bye"`)
}

func TestLoadRejectsRaggedFrames(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.csv", []byte("label,frames\nx,1 2;3\n"), 0644))
	_, err := Load(fs, "bad.csv", nil, false)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "nope.csv", nil, false)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := interleaved(3, 2)
	require.NoError(t, Save(fs, "out.csv", p))

	q, err := Load(fs, "out.csv", p.Labels, false)
	require.NoError(t, err)
	assert.Equal(t, ids(p), ids(q))
	assert.Equal(t, p.Freq, q.Freq)
}
