// Package tracker reports a run to experiment trackers: the configuration at
// start, scalars after every epoch and the artifacts of every new best
// checkpoint. Trackers are best effort, a failing tracker never stops a run.
package tracker

import "context"

import "github.com/google/uuid"
import "go.uber.org/zap"

// Run identifies one training run
type Run struct {
	ID     string
	Name   string
	Config map[string]interface{}
}

// NewRun creates a run with a random id
func NewRun(name string, config map[string]interface{}) Run {
	return Run{ID: uuid.NewString(), Name: name, Config: config}
}

// EpochMetrics are the scalars reported after one epoch. The validation
// fields are meaningful only when Validated is set.
type EpochMetrics struct {
	Epoch        int     `json:"epoch"`
	TrainLoss    float64 `json:"train_loss"`
	TrainAcc     float64 `json:"train_acc"`
	LearningRate float64 `json:"lr"`
	Validated    bool    `json:"validated"`
	ValLoss      float64 `json:"val_loss,omitempty"`
	ValAcc       float64 `json:"val_acc,omitempty"`
	ValTop5      float64 `json:"val_top5_acc,omitempty"`
	BestAcc      float64 `json:"best_acc,omitempty"`
}

// Artifact is a file produced for a new best checkpoint
type Artifact struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Epoch    int     `json:"epoch"`
	Accuracy float64 `json:"accuracy"`

	// Checkpoint marks the indexed checkpoint file of the improvement
	Checkpoint bool `json:"checkpoint,omitempty"`
}

// Tracker receives the events of one run
type Tracker interface {
	Start(ctx context.Context, run Run) error
	Log(ctx context.Context, m EpochMetrics) error
	Artifact(ctx context.Context, a Artifact) error
	Close() error
}

// Multi fans events out to several trackers and logs their failures
type Multi struct {
	log      *zap.Logger
	trackers []Tracker
}

// NewMulti creates a tracker forwarding to every tracker in ts
func NewMulti(log *zap.Logger, ts ...Tracker) *Multi {
	return &Multi{log: log, trackers: ts}
}

// Len returns the number of trackers
func (m *Multi) Len() int {
	if m == nil {
		return 0
	}
	return len(m.trackers)
}

func (m *Multi) each(what string, fn func(Tracker) error) {
	if m == nil {
		return
	}
	for _, t := range m.trackers {
		if err := fn(t); err != nil {
			m.log.Warn("tracker failed", zap.String("event", what), zap.Error(err))
		}
	}
}

// Start reports the run configuration
func (m *Multi) Start(ctx context.Context, run Run) {
	m.each("start", func(t Tracker) error { return t.Start(ctx, run) })
}

// Log reports epoch scalars
func (m *Multi) Log(ctx context.Context, e EpochMetrics) {
	m.each("log", func(t Tracker) error { return t.Log(ctx, e) })
}

// Artifact reports a best checkpoint file
func (m *Multi) Artifact(ctx context.Context, a Artifact) {
	m.each("artifact", func(t Tracker) error { return t.Artifact(ctx, a) })
}

// Close closes every tracker
func (m *Multi) Close() {
	m.each("close", func(t Tracker) error { return t.Close() })
}
