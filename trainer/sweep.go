package trainer

import "context"
import "math/rand"
import "strings"

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"

// SweepResult is the outcome of evaluating every indexed checkpoint
type SweepResult struct {
	Best     int // index of the best checkpoint, -1 when there was none
	Name     string
	Accuracy float64
	All      []float64 // test accuracy per checkpoint index
}

// Sweep reloads indexed checkpoints and evaluates them on a test partition
type Sweep struct {
	Store *checkpoint.Store
	Dims  feedforward.Dims
	HP    learning.HyperParameters
	Log   *zap.Logger
}

// Run evaluates checkpoints 0 to count-1 and keeps the most accurate one,
// the earliest on ties. A missing or unreadable checkpoint stops the sweep.
func (s Sweep) Run(ctx context.Context, count int, test *datasets.Partition) (SweepResult, error) {
	res := SweepResult{Best: -1}
	net, err := feedforward.New(s.Dims, rand.New(rand.NewSource(0)))
	if err != nil {
		return res, err
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := checkpoint.IndexName(i)
		rec, err := s.Store.Load(name)
		if err != nil {
			return res, err
		}
		if err := net.LoadStateDict(rec.Model, net.Names()); err != nil {
			return res, errors.WithMessagef(err, "checkpoint %s", s.Store.Path(name))
		}
		ev, err := Evaluate(net, test, s.HP)
		if err != nil {
			return res, err
		}
		res.All = append(res.All, ev.Acc)
		if res.Best < 0 || ev.Acc > res.Accuracy {
			res.Best = i
			res.Name = name
			res.Accuracy = ev.Acc
		}
		s.Log.Sugar().Infof("%s  ->  %v", strings.TrimSuffix(name, ".ckpt"), ev.Acc)
	}
	return res, nil
}
