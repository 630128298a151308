package tensor

import "testing"

import "github.com/stretchr/testify/assert"

func TestZerosAndClone(t *testing.T) {
	a := Zeros(2, 3)
	assert.Equal(t, 6, a.Numel())
	assert.True(t, a.Valid())

	a.Data[4] = 7
	b := a.Clone()
	b.Data[4] = 1
	assert.Equal(t, 7.0, a.Row(1)[1])
	assert.Equal(t, 1.0, b.Row(1)[1])
	assert.True(t, a.SameShape(b))
	assert.False(t, a.SameShape(Zeros(3, 2)))
}

func TestRowAliases(t *testing.T) {
	a := Zeros(2, 2)
	a.Row(1)[0] = 5
	assert.Equal(t, []float64{0, 0, 5, 0}, a.Data)
}

func TestEmptyShape(t *testing.T) {
	assert.Equal(t, 0, Tensor{}.Numel())
	assert.False(t, Tensor{Shape: []int{2}, Data: []float64{1}}.Valid())
}
