package trainer

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"

// State is the model, its optimizer and the epoch training continues at
type State struct {
	Mode      config.Mode
	Net       *feedforward.FeedforwardNetwork
	Optimizer *learning.SGD
	Trainable learning.ParamSet
	Epoch     int

	// progress written with every checkpoint and restored on resume
	Schedule     learning.ScheduleState
	BestAccuracy float64
}

// TrainableCount returns the number of trainable scalar parameters
func (s *State) TrainableCount() int {
	return s.Net.Len(s.Trainable)
}

// Record snapshots the state of epoch as a checkpoint
func (s *State) Record(epoch int, loss float64) *checkpoint.Record {
	return &checkpoint.Record{
		Epoch:        epoch,
		Model:        s.Net.StateDict(),
		Optimizer:    s.Optimizer.State(),
		Loss:         loss,
		Schedule:     s.Schedule,
		BestAccuracy: s.BestAccuracy,
	}
}
