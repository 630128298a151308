package learning

import "math"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/neurlang/seqtrain/tensor"

func TestSmoothedCrossEntropy(t *testing.T) {
	logits := []float64{2, 0.5, -1}
	loss, grad := SmoothedCrossEntropy(logits, 0, 0.1)

	p := Softmax(logits)
	want := -(0.9+0.1/3)*math.Log(p[0]) - 0.1/3*math.Log(p[1]) - 0.1/3*math.Log(p[2])
	assert.InDelta(t, want, loss, 1e-12)

	var sum float64
	for _, g := range grad {
		sum += g
	}
	assert.InDelta(t, 0, sum, 1e-12)

	const h = 1e-6
	for i := range logits {
		orig := logits[i]
		logits[i] = orig + h
		up, _ := SmoothedCrossEntropy(logits, 0, 0.1)
		logits[i] = orig - h
		down, _ := SmoothedCrossEntropy(logits, 0, 0.1)
		logits[i] = orig
		assert.InDelta(t, (up-down)/(2*h), grad[i], 1e-6)
	}
}

func TestCrossEntropyWithoutSmoothing(t *testing.T) {
	loss, _ := SmoothedCrossEntropy([]float64{0, 0}, 1, 0)
	assert.InDelta(t, math.Log(2), loss, 1e-12)
}

func params() map[string]*tensor.Tensor {
	a := tensor.Tensor{Shape: []int{2}, Data: []float64{1, 2}}
	b := tensor.Tensor{Shape: []int{1}, Data: []float64{3}}
	return map[string]*tensor.Tensor{"a": &a, "b": &b}
}

func TestSGDOnlyManaged(t *testing.T) {
	ps := params()
	opt, err := NewSGD(ps, NewParamSet("b"), HyperParameters{LearningRate: 0.5})
	require.NoError(t, err)
	assert.Equal(t, ParamSet{"b"}, opt.Managed())

	grads := map[string]tensor.Tensor{
		"a": {Shape: []int{2}, Data: []float64{1, 1}},
		"b": {Shape: []int{1}, Data: []float64{2}},
	}
	opt.Step(grads, 1)
	assert.Equal(t, []float64{1, 2}, ps["a"].Data)
	assert.Equal(t, []float64{2}, ps["b"].Data)

	_, err = NewSGD(ps, NewParamSet("c"), HyperParameters{})
	assert.Error(t, err)
}

func TestSGDMomentumState(t *testing.T) {
	ps := params()
	hp := HyperParameters{LearningRate: 0.1, Momentum: 0.9}
	opt, err := NewSGD(ps, NewParamSet("a", "b"), hp)
	require.NoError(t, err)
	grads := opt.ZeroGrads()
	grads["a"].Fill(1)
	opt.Step(grads, 1)
	opt.Step(grads, 1)
	assert.InDeltaSlice(t, []float64{1 - 0.1 - 0.19, 2 - 0.1 - 0.19}, ps["a"].Data, 1e-12)

	state := opt.State()
	other, err := NewSGD(params(), NewParamSet("a", "b"), HyperParameters{})
	require.NoError(t, err)
	require.NoError(t, other.LoadState(state))
	assert.Equal(t, state, other.State())

	state.Velocity["a"] = tensor.Zeros(3)
	err = other.LoadState(state)
	assert.True(t, errors.Is(err, tensor.ErrShape))
}

func TestParamSet(t *testing.T) {
	s := NewParamSet("b", "a", "b")
	assert.Equal(t, ParamSet{"a", "b"}, s)
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.True(t, s.Equal(NewParamSet("a", "b")))
	assert.False(t, s.Equal(NewParamSet("a")))
}

func TestConstantSchedule(t *testing.T) {
	s, err := NewSchedule(ScheduleConfig{LearningRate: 0.01})
	require.NoError(t, err)
	s.Observe(1)
	assert.Equal(t, 0.01, s.Rate(0))
	assert.Equal(t, 0.01, s.Rate(99))
}

func TestPlateauSchedule(t *testing.T) {
	s, err := NewSchedule(ScheduleConfig{Name: SchedulePlateau, LearningRate: 1, Factor: 0.1, Patience: 2})
	require.NoError(t, err)
	for _, loss := range []float64{5, 4, 4, 4} {
		s.Observe(loss)
	}
	assert.Equal(t, 1.0, s.Rate(4))
	s.Observe(4)
	assert.InDelta(t, 0.1, s.Rate(5), 1e-15)
	s.Observe(3)
	assert.InDelta(t, 0.1, s.Rate(6), 1e-15)

	_, err = NewSchedule(ScheduleConfig{Name: SchedulePlateau, Factor: 1})
	assert.Error(t, err)
}

func TestPlateauRestoreContinuesProgress(t *testing.T) {
	losses := []float64{5, 4, 4, 4, 3, 3, 3}
	whole := NewPlateau(1, 0.5, 0)
	var rates []float64
	for e, loss := range losses {
		rates = append(rates, whole.Rate(e))
		whole.Observe(loss)
	}

	head := NewPlateau(1, 0.5, 0)
	for _, loss := range losses[:3] {
		head.Observe(loss)
	}
	tail := NewPlateau(1, 0.5, 0)
	require.True(t, tail.Restore(head.State()))
	for e, loss := range losses[3:] {
		assert.Equal(t, rates[e+3], tail.Rate(e+3))
		tail.Observe(loss)
	}
	assert.Equal(t, whole.State(), tail.State())
	assert.Equal(t, 0.0625, whole.Rate(len(losses)))

	assert.False(t, tail.Restore(ScheduleState{}))
	assert.Equal(t, whole.State(), tail.State())
}

func TestScheduleConfigValidate(t *testing.T) {
	assert.NoError(t, ScheduleConfig{Name: ScheduleConstant}.Validate())
	assert.NoError(t, ScheduleConfig{Name: ScheduleWarmup, WarmupSteps: 1}.Validate())
	assert.Error(t, ScheduleConfig{Name: ScheduleWarmup}.Validate())
	assert.Error(t, ScheduleConfig{Name: SchedulePlateau, Factor: 0.5, Patience: -1}.Validate())
	assert.Error(t, ScheduleConfig{Name: "cosine"}.Validate())
}

func TestWarmupSchedule(t *testing.T) {
	s, err := NewSchedule(ScheduleConfig{Name: ScheduleWarmup, LearningRate: 0.003, WarmupSteps: 30})
	require.NoError(t, err)
	assert.InDelta(t, 0.0001, s.Rate(0), 1e-15)
	assert.InDelta(t, 0.003, s.Rate(29), 1e-15)
	assert.InDelta(t, 0.003*math.Sqrt(30.0/120), s.Rate(119), 1e-15)

	_, err = NewSchedule(ScheduleConfig{Name: "cosine"})
	assert.Error(t, err)
}
