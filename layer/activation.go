package layer

import "math"

// Activation is an elementwise nonlinearity
type Activation interface {

	// Apply computes the activation of x
	Apply(x float64) float64

	// Derivative computes the derivative given the activation output y
	Derivative(y float64) float64
}

// Tanh is the hyperbolic tangent activation
type Tanh struct{}

func (Tanh) Apply(x float64) float64      { return math.Tanh(x) }
func (Tanh) Derivative(y float64) float64 { return 1 - y*y }

// Identity leaves values unchanged, used for logits
type Identity struct{}

func (Identity) Apply(x float64) float64      { return x }
func (Identity) Derivative(y float64) float64 { return 1 }
