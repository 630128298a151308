package trainer

import "github.com/montanaflynn/stats"

// Series are the per-epoch metrics of a run. The validation slices stay nil
// when the run has no validation partition.
type Series struct {
	Epochs    []int
	TrainLoss []float64
	TrainAcc  []float64
	LR        []float64

	ValLoss []float64
	ValAcc  []float64
	ValTop5 []float64
}

// Append records one epoch. val is nil for runs without validation.
func (s *Series) Append(epoch int, lr float64, train TrainStats, val *EvalStats) {
	s.Epochs = append(s.Epochs, epoch)
	s.TrainLoss = append(s.TrainLoss, train.Loss)
	s.TrainAcc = append(s.TrainAcc, train.Acc)
	s.LR = append(s.LR, lr)
	if val != nil {
		s.ValLoss = append(s.ValLoss, val.Loss)
		s.ValAcc = append(s.ValAcc, val.Acc)
		s.ValTop5 = append(s.ValTop5, val.TopK)
	}
}

// Len returns the number of recorded epochs
func (s *Series) Len() int {
	return len(s.Epochs)
}

// Summary condenses a series into a few numbers for the final log line
type Summary struct {
	MeanTrainLoss float64
	MinTrainLoss  float64
	MaxTrainAcc   float64
	MeanValAcc    float64
	MaxValAcc     float64
}

// Summarize computes the summary of s. Empty series yield zeros.
func (s *Series) Summarize() (o Summary) {
	if len(s.TrainLoss) > 0 {
		o.MeanTrainLoss, _ = stats.Mean(s.TrainLoss)
		o.MinTrainLoss, _ = stats.Min(s.TrainLoss)
		o.MaxTrainAcc, _ = stats.Max(s.TrainAcc)
	}
	if len(s.ValAcc) > 0 {
		o.MeanValAcc, _ = stats.Mean(s.ValAcc)
		o.MaxValAcc, _ = stats.Max(s.ValAcc)
	}
	return o
}
