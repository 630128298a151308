// Package learning implements the optimizer, the loss and the learning rate
// schedules used to train the classifier.
package learning

import "sort"

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/tensor"

// ParamSet is a sorted set of parameter names
type ParamSet []string

// NewParamSet creates a set from names
func NewParamSet(names ...string) ParamSet {
	seen := make(map[string]struct{}, len(names))
	var o ParamSet
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			o = append(o, name)
		}
	}
	sort.Strings(o)
	return o
}

// Contains reports whether name is in the set
func (s ParamSet) Contains(name string) bool {
	i := sort.SearchStrings(s, name)
	return i < len(s) && s[i] == name
}

// Equal reports whether both sets hold the same names
func (s ParamSet) Equal(o ParamSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// OptimizerState is the resumable state of SGD
type OptimizerState struct {
	LearningRate float64
	Momentum     float64
	Velocity     map[string]tensor.Tensor
}

// SGD is stochastic gradient descent with optional momentum over a fixed set
// of parameters.
type SGD struct {
	lr       float64
	momentum float64
	managed  ParamSet
	params   map[string]*tensor.Tensor
	velocity map[string]tensor.Tensor
}

// NewSGD creates an optimizer managing exactly the parameters named in set
func NewSGD(params map[string]*tensor.Tensor, set ParamSet, h HyperParameters) (*SGD, error) {
	o := &SGD{
		lr:       h.LearningRate,
		momentum: h.Momentum,
		managed:  set,
		params:   make(map[string]*tensor.Tensor, len(set)),
		velocity: make(map[string]tensor.Tensor),
	}
	for _, name := range set {
		p, ok := params[name]
		if !ok {
			return nil, errors.Errorf("optimizer: unknown parameter %s", name)
		}
		o.params[name] = p
		if o.momentum != 0 {
			o.velocity[name] = tensor.ZerosLike(*p)
		}
	}
	return o, nil
}

// Managed returns the names of the parameters the optimizer updates
func (o *SGD) Managed() ParamSet {
	return o.managed
}

// ZeroGrads returns zeroed gradient buffers for the managed parameters
func (o *SGD) ZeroGrads() map[string]tensor.Tensor {
	grads := make(map[string]tensor.Tensor, len(o.params))
	for name, p := range o.params {
		grads[name] = tensor.ZerosLike(*p)
	}
	return grads
}

// LearningRate returns the current learning rate
func (o *SGD) LearningRate() float64 {
	return o.lr
}

// SetLearningRate overrides the learning rate
func (o *SGD) SetLearningRate(lr float64) {
	o.lr = lr
}

// Step applies the averaged gradients. scale multiplies every gradient,
// usually 1/batch size. Gradients of unmanaged parameters are ignored.
func (o *SGD) Step(grads map[string]tensor.Tensor, scale float64) {
	for _, name := range o.managed {
		g, ok := grads[name]
		if !ok {
			continue
		}
		p := o.params[name]
		if o.momentum != 0 {
			v := o.velocity[name]
			for i := range v.Data {
				v.Data[i] = o.momentum*v.Data[i] + scale*g.Data[i]
				p.Data[i] -= o.lr * v.Data[i]
			}
			continue
		}
		for i := range p.Data {
			p.Data[i] -= o.lr * scale * g.Data[i]
		}
	}
}

// State returns a deep copy of the optimizer state
func (o *SGD) State() OptimizerState {
	s := OptimizerState{
		LearningRate: o.lr,
		Momentum:     o.momentum,
		Velocity:     make(map[string]tensor.Tensor, len(o.velocity)),
	}
	for name, v := range o.velocity {
		s.Velocity[name] = v.Clone()
	}
	return s
}

// LoadState restores a state saved by State over the same parameters
func (o *SGD) LoadState(s OptimizerState) error {
	for name, v := range s.Velocity {
		p, ok := o.params[name]
		if !ok {
			return errors.Wrapf(tensor.ErrShape, "optimizer state for unmanaged parameter %s", name)
		}
		if !v.SameShape(*p) || !v.Valid() {
			return errors.Wrapf(tensor.ErrShape, "optimizer velocity %s: stored shape %s, parameter shape %s",
				name, v.ShapeString(), p.ShapeString())
		}
	}
	o.lr = s.LearningRate
	o.momentum = s.Momentum
	o.velocity = make(map[string]tensor.Tensor)
	for name, p := range o.params {
		if v, ok := s.Velocity[name]; ok {
			o.velocity[name] = v.Clone()
		} else if o.momentum != 0 {
			o.velocity[name] = tensor.ZerosLike(*p)
		}
	}
	return nil
}
