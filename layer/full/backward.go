package full

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/tensor"

// Backward accumulates the weight and bias gradients present in grads and
// returns the gradient with respect to the input.
func (d *Dense) Backward(in, out, gradOut []float64, grads map[string]tensor.Tensor) []float64 {
	delta := make([]float64, len(out))
	for i, y := range out {
		delta[i] = gradOut[i] * d.act.Derivative(y)
	}
	if gw, ok := grads[WeightName(d.name)]; ok {
		for i, di := range delta {
			row := gw.Row(i)
			for j, x := range in {
				row[j] += di * x
			}
		}
	}
	if gb, ok := grads[BiasName(d.name)]; ok {
		for i, di := range delta {
			gb.Data[i] += di
		}
	}
	gradIn := make([]float64, d.In())
	for i, di := range delta {
		for j, w := range d.weight.Row(i) {
			gradIn[j] += w * di
		}
	}
	return gradIn
}

func errBadSize(name string, in, out int) error {
	return errors.Errorf("layer %s: bad size %dx%d", name, in, out)
}
