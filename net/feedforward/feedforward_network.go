// Package feedforward implements the feedforward sequence classifier: frames
// are pooled into one vector which passes through two tanh layers and a
// linear classification head.
package feedforward

import "math/rand"
import "sort"

import "github.com/neurlang/seqtrain/layer"
import "github.com/neurlang/seqtrain/layer/full"
import "github.com/neurlang/seqtrain/tensor"

// Layer names. The classification head is the only layer transfer learning trains.
const (
	EmbedLayer  = "embed"
	HiddenLayer = "hidden"
	HeadLayer   = "linear_class"
)

// Dims are the sizes a network is built from
type Dims struct {
	Input   int // frame width; the pooled input is twice as wide
	Hidden  int
	Classes int
}

// FeedforwardNetwork is the classifier
type FeedforwardNetwork struct {
	dims   Dims
	layers []*full.Dense
}

// New creates a network with weights drawn from rng
func New(dims Dims, rng *rand.Rand) (*FeedforwardNetwork, error) {
	embed, err := full.New(EmbedLayer, PooledWidth(dims.Input), dims.Hidden, layer.Tanh{}, rng)
	if err != nil {
		return nil, err
	}
	hidden, err := full.New(HiddenLayer, dims.Hidden, dims.Hidden, layer.Tanh{}, rng)
	if err != nil {
		return nil, err
	}
	head, err := full.New(HeadLayer, dims.Hidden, dims.Classes, layer.Identity{}, rng)
	if err != nil {
		return nil, err
	}
	return &FeedforwardNetwork{
		dims:   dims,
		layers: []*full.Dense{embed, hidden, head},
	}, nil
}

// Dims returns the network sizes
func (f *FeedforwardNetwork) Dims() Dims {
	return f.dims
}

// LenLayers returns the number of layers
func (f *FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer returns the layer called name, nil if there is none
func (f *FeedforwardNetwork) GetLayer(name string) layer.Layer {
	for _, l := range f.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// Parameters returns every parameter tensor keyed by name
func (f *FeedforwardNetwork) Parameters() map[string]*tensor.Tensor {
	o := make(map[string]*tensor.Tensor)
	for _, l := range f.layers {
		for name, p := range l.Parameters() {
			o[name] = p
		}
	}
	return o
}

// Names returns the parameter names in a stable order
func (f *FeedforwardNetwork) Names() []string {
	var o []string
	for _, l := range f.layers {
		var names []string
		for name := range l.Parameters() {
			names = append(names, name)
		}
		sort.Strings(names)
		o = append(o, names...)
	}
	return o
}

// LayerNames returns the parameter names of one layer
func (f *FeedforwardNetwork) LayerNames(name string) []string {
	return []string{full.WeightName(name), full.BiasName(name)}
}

// Len returns the number of scalar parameters of the named tensors
func (f *FeedforwardNetwork) Len(names []string) (o int) {
	params := f.Parameters()
	for _, name := range names {
		if p, ok := params[name]; ok {
			o += p.Numel()
		}
	}
	return
}

// ReplaceHead swaps the classification head for a freshly initialized one
// with the given number of classes.
func (f *FeedforwardNetwork) ReplaceHead(classes int, rng *rand.Rand) error {
	head, err := full.New(HeadLayer, f.dims.Hidden, classes, layer.Identity{}, rng)
	if err != nil {
		return err
	}
	f.layers[len(f.layers)-1] = head
	f.dims.Classes = classes
	return nil
}
