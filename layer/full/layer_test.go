package full

import "math/rand"
import "testing"

import "github.com/neurlang/seqtrain/layer"
import "github.com/neurlang/seqtrain/tensor"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func dense(t *testing.T, name string, in, out int, act layer.Activation) *Dense {
	d, err := New(name, in, out, act, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return d
}

// loss is the sum of outputs, so gradOut is all ones
func sumForward(d *Dense, in []float64) (s float64) {
	for _, v := range d.Forward(in) {
		s += v
	}
	return
}

func TestBackwardMatchesFiniteDifferences(t *testing.T) {
	d := dense(t, "hidden", 3, 2, layer.Tanh{})
	d.bias.Data[0] = 0.3
	in := []float64{0.5, -1, 2}
	out := d.Forward(in)

	grads := map[string]tensor.Tensor{
		WeightName("hidden"): tensor.ZerosLike(d.weight),
		BiasName("hidden"):   tensor.ZerosLike(d.bias),
	}
	gradIn := d.Backward(in, out, []float64{1, 1}, grads)

	const h = 1e-6
	for name, p := range d.Parameters() {
		for i := range p.Data {
			orig := p.Data[i]
			p.Data[i] = orig + h
			up := sumForward(d, in)
			p.Data[i] = orig - h
			down := sumForward(d, in)
			p.Data[i] = orig
			assert.InDelta(t, (up-down)/(2*h), grads[name].Data[i], 1e-6, "%s[%d]", name, i)
		}
	}
	for j := range in {
		orig := in[j]
		in[j] = orig + h
		up := sumForward(d, in)
		in[j] = orig - h
		down := sumForward(d, in)
		in[j] = orig
		assert.InDelta(t, (up-down)/(2*h), gradIn[j], 1e-6, "input %d", j)
	}
}

func TestBackwardSkipsMissingGrads(t *testing.T) {
	d := dense(t, "frozen", 2, 2, nil)
	gradIn := d.Backward([]float64{1, 1}, d.Forward([]float64{1, 1}), []float64{1, 0}, map[string]tensor.Tensor{})
	assert.Len(t, gradIn, 2)
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := New("x", 0, 3, nil, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestParametersAreNamed(t *testing.T) {
	d := dense(t, "linear_class", 4, 3, nil)
	params := d.Parameters()
	assert.Equal(t, []int{3, 4}, params["linear_class.weight"].Shape)
	assert.Equal(t, []int{3}, params["linear_class.bias"].Shape)
	assert.Equal(t, 4, d.In())
	assert.Equal(t, 3, d.Out())
}
