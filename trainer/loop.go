package trainer

import "context"
import "io"
import "path"

import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/report"
import "github.com/neurlang/seqtrain/tracker"

// Result is what a finished run produced
type Result struct {
	Series      Series
	Best        float64      // best validation accuracy
	Checkpoints int          // indexed checkpoints written
	Table       []ClassStats // per-class table of the best epoch
	Sweep       *SweepResult // nil without a test partition
	Summary     Summary
}

// Orchestrator owns the model state of a run and drives its epochs
type Orchestrator struct {
	Config     config.Config
	Fs         afero.Fs
	State      *State
	Train      *datasets.Loader
	Validation *datasets.Partition // nil when the run has no validation
	Test       *datasets.Partition // nil when the run has no test partition
	Schedule   learning.Schedule
	Policy     *Policy
	Sweep      Sweep
	Tracker    *tracker.Multi
	HP         learning.HyperParameters
	Log        *zap.Logger
}

// Run trains for the configured number of epochs starting at the epoch of
// the acquired state, then sweeps the written checkpoints over the test
// partition and draws the charts. The context is checked between epochs.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	var res Result
	cfg := o.Config
	st := o.State
	log := o.Log.Sugar()

	run := tracker.NewRun(cfg.Decorated(), nil)
	if snap, err := cfg.Snapshot(); err == nil {
		run.Config = snap
	}
	o.Tracker.Start(ctx, run)

	log.Infof("Starting %s...", cfg.RunName())
	first := st.Epoch
	for e := first; e < first+cfg.Epochs; e++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		lr := o.Schedule.Rate(e)
		st.Optimizer.SetLearningRate(lr)

		train, err := TrainEpoch(st.Net, st.Optimizer, o.Train, e, o.HP)
		if err != nil {
			return res, err
		}
		var val *EvalStats
		if o.Validation != nil {
			ev, err := Evaluate(st.Net, o.Validation, o.HP)
			if err != nil {
				return res, err
			}
			val = &ev
		}

		res.Series.Append(e, lr, train, val)
		if val != nil {
			o.Schedule.Observe(val.Loss)
		} else {
			o.Schedule.Observe(train.Loss)
		}
		if r, ok := o.Schedule.(learning.Resumable); ok {
			st.Schedule = r.State()
		}
		if _, err := o.Policy.Observe(ctx, e, st, train, val, o.Validation); err != nil {
			return res, err
		}
		m := tracker.EpochMetrics{Epoch: e, TrainLoss: train.Loss, TrainAcc: train.Acc, LearningRate: lr}
		if val != nil {
			m.Validated = true
			m.ValLoss, m.ValAcc, m.ValTop5, m.BestAcc = val.Loss, val.Acc, val.TopK, o.Policy.Best()
		}
		o.Tracker.Log(ctx, m)

		if e%cfg.LogFreq == 0 {
			log.Infof("[%d] TRAIN  loss: %v acc: %v", e+1, train.Loss, train.Acc)
			if val != nil {
				log.Infof("[%d] VALIDATION  loss: %v acc: %v top-%d(acc): %v", e+1, val.Loss, val.Acc, val.K, val.TopK)
			}
		}
	}
	st.Epoch = first + cfg.Epochs
	res.Best = o.Policy.Best()
	res.Checkpoints = o.Policy.Count()
	res.Table = o.Policy.Table()

	if o.Test != nil {
		log.Info("Testing checkpointed models starting...")
		sw, err := o.Sweep.Run(ctx, o.Policy.Count(), o.Test)
		if err != nil {
			return res, err
		}
		res.Sweep = &sw
		if sw.Best >= 0 {
			log.Infof("The top result was recorded at %v testing accuracy. The best checkpoint is %s.",
				sw.Accuracy, path.Join(cfg.Decorated(), sw.Name))
		}
	}

	o.plot(&res.Series)
	res.Summary = res.Series.Summarize()
	o.Log.Info("experiment finished",
		zap.Int("epochs", res.Series.Len()),
		zap.Float64("mean_train_loss", res.Summary.MeanTrainLoss),
		zap.Float64("min_train_loss", res.Summary.MinTrainLoss),
		zap.Float64("max_train_acc", res.Summary.MaxTrainAcc),
		zap.Float64("max_val_acc", res.Summary.MaxValAcc),
		zap.Int("checkpoints", res.Checkpoints))
	return res, nil
}

func (o *Orchestrator) plot(s *Series) {
	cfg := o.Config
	if cfg.PlotStats {
		name := path.Join(cfg.ImgDir, cfg.Decorated()+"_loss.png")
		err := report.SavePNG(o.Fs, name, func(w io.Writer) error {
			return report.PlotStats(w, report.Curves{
				TrainLoss: s.TrainLoss,
				TrainAcc:  s.TrainAcc,
				ValAcc:    s.ValAcc,
				ValTop5:   s.ValTop5,
			})
		})
		if err != nil {
			o.Log.Warn("statistics chart not drawn", zap.Error(err))
		}
	}
	if cfg.PlotLR {
		name := path.Join(cfg.ImgDir, cfg.Decorated()+"_lr.png")
		err := report.SavePNG(o.Fs, name, func(w io.Writer) error {
			return report.PlotLR(w, s.LR)
		})
		if err != nil {
			o.Log.Warn("learning rate chart not drawn", zap.Error(err))
		}
	}
}
