package trainer

import "context"
import "path"

import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/report"
import "github.com/neurlang/seqtrain/tracker"

// ClassStats is one row of the per-class statistics table
type ClassStats struct {
	Class    string
	Correct  int
	Total    int
	Accuracy float64
}

// ClassTable builds the per-class table of an evaluation. Only classes below
// numClasses that occur in the partition are listed, in class order.
func ClassTable(e EvalStats, p *datasets.Partition, numClasses int) []ClassStats {
	var o []ClassStats
	for c, cc := range e.Classes {
		if c >= numClasses || cc.Total == 0 {
			continue
		}
		o = append(o, ClassStats{
			Class:    p.ClassName(c),
			Correct:  cc.Correct,
			Total:    cc.Total,
			Accuracy: float64(cc.Correct) / float64(cc.Total),
		})
	}
	return o
}

// Policy keeps the checkpoint with the best validation accuracy. Every strict
// improvement is written twice: over the best checkpoint and as the next
// indexed checkpoint, which the sweep reads back.
type Policy struct {
	fs         afero.Fs
	store      *checkpoint.Store
	save       bool
	numClasses int
	tracker    *tracker.Multi
	log        *zap.Logger

	best  float64
	count int
	table []ClassStats
}

// NewPolicy creates a policy writing into store. Nothing is written unless
// save is set.
func NewPolicy(fs afero.Fs, store *checkpoint.Store, save bool, numClasses int, t *tracker.Multi, log *zap.Logger) *Policy {
	return &Policy{
		fs:         fs,
		store:      store,
		save:       save,
		numClasses: numClasses,
		tracker:    t,
		log:        log,
	}
}

// Continue makes a resumed run keep the best accuracy of the run it resumes
// and number its checkpoints after the count already written
func (p *Policy) Continue(best float64, count int) {
	p.best = best
	p.count = count
}

// Best returns the best validation accuracy so far
func (p *Policy) Best() float64 {
	return p.best
}

// Count returns the number of indexed checkpoints written
func (p *Policy) Count() int {
	return p.count
}

// Table returns the per-class table of the best epoch
func (p *Policy) Table() []ClassStats {
	return p.table
}

// Observe is called after every epoch. val is nil when no validation pass ran,
// in which case nothing happens. It reports whether the epoch improved on the
// best validation accuracy.
func (p *Policy) Observe(ctx context.Context, epoch int, st *State, train TrainStats,
	val *EvalStats, part *datasets.Partition) (bool, error) {

	if val == nil || !(val.Acc > p.best) {
		return false, nil
	}
	p.best = val.Acc
	p.table = ClassTable(*val, part, p.numClasses)
	for _, row := range p.table {
		p.log.Info("class accuracy",
			zap.String("class", row.Class),
			zap.Int("correct", row.Correct),
			zap.Int("total", row.Total),
			zap.Float64("accuracy", row.Accuracy))
	}
	if !p.save {
		return true, nil
	}

	st.BestAccuracy = val.Acc
	rec := st.Record(epoch, train.Loss)
	if err := p.store.SaveBest(rec); err != nil {
		return true, err
	}
	name := checkpoint.IndexName(p.count)
	if err := p.store.SaveIndexed(p.count, rec); err != nil {
		return true, err
	}

	results := make([]report.ResultRow, len(val.Predictions))
	for i, pr := range val.Predictions {
		results[i] = report.ResultRow{
			Predicted: part.ClassName(pr.Predicted),
			Expected:  part.ClassName(pr.Expected),
		}
	}
	resultsPath := p.store.Path(report.ResultsFile)
	if err := report.WriteResults(p.fs, resultsPath, results); err != nil {
		return true, err
	}
	rows := make([]report.ClassRow, len(p.table))
	for i, row := range p.table {
		rows[i] = report.ClassRow(row)
	}
	classPath := p.store.Path(report.ClassAccuracyFile)
	if err := report.WriteClassAccuracy(p.fs, classPath, rows); err != nil {
		return true, err
	}

	for _, a := range []tracker.Artifact{
		{Name: checkpoint.BestName, Path: p.store.Path(checkpoint.BestName)},
		{Name: name, Path: p.store.Path(name), Checkpoint: true},
		{Name: path.Base(resultsPath), Path: resultsPath},
		{Name: path.Base(classPath), Path: classPath},
	} {
		a.Epoch = epoch
		a.Accuracy = val.Acc
		p.tracker.Artifact(ctx, a)
	}
	p.count++
	return true, nil
}
