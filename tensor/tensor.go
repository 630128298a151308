// Package tensor implements the dense float64 tensor used for model parameters,
// gradients and optimizer buffers.
package tensor

import "fmt"

import "github.com/pkg/errors"

// Tensor is a dense row-major tensor
type Tensor struct {
	Shape []int
	Data  []float64
}

// Zeros creates a zero filled tensor of the given shape
func Zeros(shape ...int) Tensor {
	s := make([]int, len(shape))
	copy(s, shape)
	return Tensor{Shape: s, Data: make([]float64, numel(s))}
}

// ZerosLike creates a zero filled tensor with the shape of t
func ZerosLike(t Tensor) Tensor {
	return Zeros(t.Shape...)
}

// Numel returns the number of elements
func (t Tensor) Numel() int {
	return numel(t.Shape)
}

// Clone deep copies the tensor
func (t Tensor) Clone() Tensor {
	o := Zeros(t.Shape...)
	copy(o.Data, t.Data)
	return o
}

// SameShape reports whether t and u have identical shapes
func (t Tensor) SameShape(u Tensor) bool {
	if len(t.Shape) != len(u.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != u.Shape[i] {
			return false
		}
	}
	return true
}

// Valid reports whether the data length agrees with the shape
func (t Tensor) Valid() bool {
	return len(t.Data) == numel(t.Shape)
}

// Row returns row i of a matrix as a slice aliasing the tensor data
func (t Tensor) Row(i int) []float64 {
	cols := t.Shape[1]
	return t.Data[i*cols : (i+1)*cols]
}

// Add accumulates u into t
func (t Tensor) Add(u Tensor) {
	for i := range t.Data {
		t.Data[i] += u.Data[i]
	}
}

// Scale multiplies every element by alpha
func (t Tensor) Scale(alpha float64) {
	for i := range t.Data {
		t.Data[i] *= alpha
	}
}

// Fill sets every element to v
func (t Tensor) Fill(v float64) {
	for i := range t.Data {
		t.Data[i] = v
	}
}

// ShapeString formats the shape like [2 3]
func (t Tensor) ShapeString() string {
	return fmt.Sprint(t.Shape)
}

func numel(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// ErrShape reports tensors incompatible with the configured dimensions
var ErrShape = errors.New("incompatible tensor shape")
