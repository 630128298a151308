package trainer

import "testing"

import "github.com/stretchr/testify/assert"

func TestSeriesValidationOnlyWhenEvaluated(t *testing.T) {
	var s Series
	s.Append(0, 0.1, TrainStats{Loss: 2, Acc: 0.25}, nil)
	s.Append(1, 0.1, TrainStats{Loss: 1, Acc: 0.75}, nil)
	assert.Nil(t, s.ValAcc)

	sum := s.Summarize()
	assert.Equal(t, 1.5, sum.MeanTrainLoss)
	assert.Equal(t, 1.0, sum.MinTrainLoss)
	assert.Equal(t, 0.75, sum.MaxTrainAcc)
	assert.Zero(t, sum.MaxValAcc)

	s.Append(2, 0.1, TrainStats{}, &EvalStats{Acc: 0.5, TopK: 1})
	assert.Equal(t, []float64{0.5}, s.ValAcc)
	assert.Equal(t, 3, s.Len())
}
