// Package layer defines the differentiable layer and activation interfaces
// the classifier is built from.
package layer

import "github.com/neurlang/seqtrain/tensor"

// Layer is one differentiable layer owning named parameters
type Layer interface {

	// Name prefixes the names of the layer parameters
	Name() string

	// Forward computes the layer output for one input vector
	Forward(in []float64) (out []float64)

	// Backward accumulates parameter gradients into grads (keyed by parameter
	// name, missing keys are skipped) and returns the gradient with respect to
	// the input. out is the value Forward returned for in.
	Backward(in, out, gradOut []float64, grads map[string]tensor.Tensor) (gradIn []float64)

	// Parameters returns the parameter tensors keyed by full parameter name
	Parameters() map[string]*tensor.Tensor
}
