package feedforward

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/tensor"

// ErrShape reports parameters incompatible with the configured dimensions
var ErrShape = tensor.ErrShape

// StateDict returns a deep copy of every parameter keyed by name
func (f *FeedforwardNetwork) StateDict() map[string]tensor.Tensor {
	o := make(map[string]tensor.Tensor)
	for name, p := range f.Parameters() {
		o[name] = p.Clone()
	}
	return o
}

// LoadStateDict copies the named parameters from state into the network.
// Every name in names must be present in state with exactly the shape the
// network expects, otherwise nothing is modified and ErrShape is returned.
func (f *FeedforwardNetwork) LoadStateDict(state map[string]tensor.Tensor, names []string) error {
	params := f.Parameters()
	for _, name := range names {
		p, ok := params[name]
		if !ok {
			return errors.Wrapf(ErrShape, "network has no parameter %s", name)
		}
		s, ok := state[name]
		if !ok {
			return errors.Wrapf(ErrShape, "state has no parameter %s", name)
		}
		if !s.SameShape(*p) || !s.Valid() {
			return errors.Wrapf(ErrShape, "parameter %s: stored shape %s, configured shape %s",
				name, s.ShapeString(), p.ShapeString())
		}
	}
	for _, name := range names {
		*params[name] = state[name].Clone()
	}
	return nil
}

// DimsOf infers network dimensions from a state dict
func DimsOf(state map[string]tensor.Tensor) (Dims, error) {
	embed, ok := state[EmbedLayer+".weight"]
	if !ok || len(embed.Shape) != 2 {
		return Dims{}, errors.Wrapf(ErrShape, "state has no 2-d %s.weight", EmbedLayer)
	}
	head, ok := state[HeadLayer+".weight"]
	if !ok || len(head.Shape) != 2 {
		return Dims{}, errors.Wrapf(ErrShape, "state has no 2-d %s.weight", HeadLayer)
	}
	if embed.Shape[1]%2 != 0 {
		return Dims{}, errors.Wrapf(ErrShape, "%s.weight input width %d is not a pooled width", EmbedLayer, embed.Shape[1])
	}
	return Dims{
		Input:   embed.Shape[1] / 2,
		Hidden:  embed.Shape[0],
		Classes: head.Shape[0],
	}, nil
}
