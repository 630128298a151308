package trainer

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/checkpoint"
import "github.com/neurlang/seqtrain/config"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"
import "github.com/neurlang/seqtrain/seed"

// Acquire builds the model and optimizer for mode. Checkpoint paths of
// Resume and Transfer are read through store.
func Acquire(mode config.Mode, dims feedforward.Dims, hp learning.HyperParameters,
	store *checkpoint.Store, seeder *seed.Seeder) (*State, error) {

	net, err := feedforward.New(dims, seeder.Rand(seed.Init, 0))
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}
	st := &State{Mode: mode, Net: net}

	var rec *checkpoint.Record
	switch m := mode.(type) {
	case config.Fresh:
		st.Trainable = learning.NewParamSet(net.Names()...)

	case config.Resume:
		if rec, err = store.Load(m.Path); err != nil {
			return nil, err
		}
		if err := net.LoadStateDict(rec.Model, net.Names()); err != nil {
			return nil, errors.WithMessagef(err, "resume from %s", m.Path)
		}
		st.Trainable = learning.NewParamSet(net.Names()...)
		st.Epoch = rec.Epoch + 1
		st.Schedule = rec.Schedule
		st.BestAccuracy = rec.BestAccuracy

	case config.Transfer:
		if rec, err = store.Load(m.Path); err != nil {
			return nil, err
		}
		src, err := feedforward.DimsOf(rec.Model)
		if err != nil {
			return nil, errors.WithMessagef(err, "transfer from %s", m.Path)
		}
		if src.Input != dims.Input || src.Hidden != dims.Hidden {
			return nil, errors.Wrapf(ErrShape, "transfer from %s: body has input %d hidden %d, configured input %d hidden %d",
				m.Path, src.Input, src.Hidden, dims.Input, dims.Hidden)
		}
		body := append(net.LayerNames(feedforward.EmbedLayer), net.LayerNames(feedforward.HiddenLayer)...)
		if err := net.LoadStateDict(rec.Model, body); err != nil {
			return nil, errors.WithMessagef(err, "transfer from %s", m.Path)
		}
		if err := net.ReplaceHead(dims.Classes, seeder.Rand(seed.Head, 0)); err != nil {
			return nil, err
		}
		st.Trainable = learning.NewParamSet(net.LayerNames(feedforward.HeadLayer)...)

	default:
		return nil, errors.Errorf("unknown acquisition mode %T", mode)
	}

	st.Optimizer, err = learning.NewSGD(net.Parameters(), st.Trainable, hp)
	if err != nil {
		return nil, err
	}
	if m, ok := mode.(config.Resume); ok {
		if err := st.Optimizer.LoadState(rec.Optimizer); err != nil {
			return nil, errors.WithMessagef(err, "resume optimizer from %s", m.Path)
		}
	}
	if !st.Optimizer.Managed().Equal(st.Trainable) {
		return nil, errors.Errorf("optimizer manages %v, trainable %v", st.Optimizer.Managed(), st.Trainable)
	}
	return st, nil
}
