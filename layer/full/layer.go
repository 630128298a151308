// Package full implements a fully connected layer
package full

import "math"
import "math/rand"

import "github.com/neurlang/seqtrain/layer"
import "github.com/neurlang/seqtrain/tensor"

// Dense is a fully connected layer: out = act(W in + b)
type Dense struct {
	name   string
	weight tensor.Tensor
	bias   tensor.Tensor
	act    layer.Activation
}

// WeightName returns the weight parameter name of a layer called name
func WeightName(name string) string {
	return name + ".weight"
}

// BiasName returns the bias parameter name of a layer called name
func BiasName(name string) string {
	return name + ".bias"
}

// New creates a new dense layer with Xavier uniform weights and zero bias
func New(name string, in, out int, act layer.Activation, rng *rand.Rand) (o *Dense, err error) {
	if in <= 0 || out <= 0 {
		return nil, errBadSize(name, in, out)
	}
	if act == nil {
		act = layer.Identity{}
	}
	o = &Dense{
		name:   name,
		weight: tensor.Zeros(out, in),
		bias:   tensor.Zeros(out),
		act:    act,
	}
	limit := math.Sqrt(6 / float64(in+out))
	for i := range o.weight.Data {
		o.weight.Data[i] = (2*rng.Float64() - 1) * limit
	}
	return o, nil
}

// Name returns the layer name
func (d *Dense) Name() string {
	return d.name
}

// In returns the input width
func (d *Dense) In() int {
	return d.weight.Shape[1]
}

// Out returns the output width
func (d *Dense) Out() int {
	return d.weight.Shape[0]
}

// Parameters returns the weight and bias keyed by parameter name
func (d *Dense) Parameters() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		WeightName(d.name): &d.weight,
		BiasName(d.name):   &d.bias,
	}
}

// Forward computes act(W in + b)
func (d *Dense) Forward(in []float64) []float64 {
	out := make([]float64, d.Out())
	for i := range out {
		sum := d.bias.Data[i]
		for j, w := range d.weight.Row(i) {
			sum += w * in[j]
		}
		out[i] = d.act.Apply(sum)
	}
	return out
}
