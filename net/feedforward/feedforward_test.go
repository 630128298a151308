package feedforward

import "math/rand"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/seqtrain/tensor"

func newNet(t *testing.T, dims Dims, seed int64) *FeedforwardNetwork {
	n, err := New(dims, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return n
}

var frames = [][]float64{{0.1, -0.3}, {0.4, 0.2}, {-0.2, 0.9}}

func TestSameSeedSameWeights(t *testing.T) {
	dims := Dims{Input: 2, Hidden: 5, Classes: 3}
	assert.Equal(t, newNet(t, dims, 9).StateDict(), newNet(t, dims, 9).StateDict())
	assert.NotEqual(t, newNet(t, dims, 9).StateDict(), newNet(t, dims, 10).StateDict())
}

func TestNamesAndLen(t *testing.T) {
	n := newNet(t, Dims{Input: 2, Hidden: 5, Classes: 3}, 1)
	assert.Equal(t, []string{
		"embed.bias", "embed.weight",
		"hidden.bias", "hidden.weight",
		"linear_class.bias", "linear_class.weight",
	}, n.Names())
	assert.Equal(t, 3+15, n.Len(n.LayerNames(HeadLayer)))
	assert.Equal(t, 5+20+5+25+3+15, n.Len(n.Names()))
	assert.Equal(t, 3, n.LenLayers())
	assert.NotNil(t, n.GetLayer(HiddenLayer))
	assert.Nil(t, n.GetLayer("missing"))
}

func TestLoadStateDict(t *testing.T) {
	dims := Dims{Input: 2, Hidden: 4, Classes: 3}
	a, b := newNet(t, dims, 1), newNet(t, dims, 2)
	require.NoError(t, b.LoadStateDict(a.StateDict(), b.Names()))
	assert.Equal(t, a.StateDict(), b.StateDict())
	assert.Equal(t, a.Forward(frames).Logits(), b.Forward(frames).Logits())
}

func TestLoadStateDictShapeMismatch(t *testing.T) {
	a := newNet(t, Dims{Input: 2, Hidden: 4, Classes: 3}, 1)
	b := newNet(t, Dims{Input: 2, Hidden: 4, Classes: 5}, 2)
	before := b.StateDict()
	err := b.LoadStateDict(a.StateDict(), b.Names())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
	assert.Contains(t, err.Error(), "linear_class")
	assert.Equal(t, before, b.StateDict())

	require.NoError(t, b.LoadStateDict(a.StateDict(), append(b.LayerNames(EmbedLayer), b.LayerNames(HiddenLayer)...)))
}

func TestDimsOf(t *testing.T) {
	dims := Dims{Input: 3, Hidden: 6, Classes: 4}
	got, err := DimsOf(newNet(t, dims, 1).StateDict())
	require.NoError(t, err)
	assert.Equal(t, dims, got)

	_, err = DimsOf(map[string]tensor.Tensor{})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestReplaceHead(t *testing.T) {
	n := newNet(t, Dims{Input: 2, Hidden: 4, Classes: 100}, 1)
	body := n.StateDict()
	require.NoError(t, n.ReplaceHead(7, rand.New(rand.NewSource(3))))
	assert.Equal(t, 7, n.Dims().Classes)
	assert.Len(t, n.Forward(frames).Logits(), 7)
	after := n.StateDict()
	assert.Equal(t, body["embed.weight"], after["embed.weight"])
	assert.Equal(t, []int{7, 4}, after["linear_class.weight"].Shape)
}

func TestBackwardMatchesFiniteDifferences(t *testing.T) {
	n := newNet(t, Dims{Input: 2, Hidden: 3, Classes: 2}, 4)
	grads := make(map[string]tensor.Tensor)
	for name, p := range n.Parameters() {
		grads[name] = tensor.ZerosLike(*p)
	}
	// loss = first logit
	n.Backward(n.Forward(frames), []float64{1, 0}, grads)

	const h = 1e-6
	for name, p := range n.Parameters() {
		for i := range p.Data {
			orig := p.Data[i]
			p.Data[i] = orig + h
			up := n.Forward(frames).Logits()[0]
			p.Data[i] = orig - h
			down := n.Forward(frames).Logits()[0]
			p.Data[i] = orig
			assert.InDelta(t, (up-down)/(2*h), grads[name].Data[i], 1e-6, "%s[%d]", name, i)
		}
	}
}

func TestBackwardOnlyHead(t *testing.T) {
	n := newNet(t, Dims{Input: 2, Hidden: 3, Classes: 2}, 4)
	grads := map[string]tensor.Tensor{
		"linear_class.weight": tensor.Zeros(2, 3),
		"linear_class.bias":   tensor.Zeros(2),
	}
	n.Backward(n.Forward(frames), []float64{1, -1}, grads)
	assert.Equal(t, []float64{1, -1}, grads["linear_class.bias"].Data)
}

func TestPool(t *testing.T) {
	assert.Equal(t, []float64{2, 0, 1, 0}, Pool([][]float64{{1, 0}, {3, 0}}))
	assert.Nil(t, Pool(nil))
}

func TestTopK(t *testing.T) {
	logits := []float64{0.1, 0.9, 0.5, 0.3}
	assert.Equal(t, 1, Argmax(logits))
	assert.True(t, InTopK(logits, 2, 2))
	assert.False(t, InTopK(logits, 0, 3))
	assert.True(t, InTopK(logits, 0, 5))
}
