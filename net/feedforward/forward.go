package feedforward

import "math"
import "sort"

import "github.com/neurlang/seqtrain/tensor"

// PooledWidth is the network input width for frames of the given width
func PooledWidth(frameWidth int) int {
	return 2 * frameWidth
}

// Pool reduces a sequence to the per-value mean followed by the per-value
// standard deviation over all frames.
func Pool(frames [][]float64) []float64 {
	if len(frames) == 0 {
		return nil
	}
	width := len(frames[0])
	o := make([]float64, 2*width)
	n := float64(len(frames))
	for _, frame := range frames {
		for j, v := range frame {
			o[j] += v
		}
	}
	for j := 0; j < width; j++ {
		o[j] /= n
	}
	for _, frame := range frames {
		for j, v := range frame {
			d := v - o[j]
			o[width+j] += d * d
		}
	}
	for j := 0; j < width; j++ {
		o[width+j] = math.Sqrt(o[width+j] / n)
	}
	return o
}

// Trace keeps the activations of one forward pass for the backward pass
type Trace struct {
	acts [][]float64
}

// Logits returns the network output of the traced pass
func (t Trace) Logits() []float64 {
	return t.acts[len(t.acts)-1]
}

// Forward computes class logits for a sequence
func (f *FeedforwardNetwork) Forward(frames [][]float64) Trace {
	acts := make([][]float64, 0, len(f.layers)+1)
	x := Pool(frames)
	acts = append(acts, x)
	for _, l := range f.layers {
		x = l.Forward(x)
		acts = append(acts, x)
	}
	return Trace{acts: acts}
}

// Backward accumulates into grads the gradients of the parameters it contains,
// given the loss gradient with respect to the logits. Layers before the first
// one holding a requested gradient are not visited.
func (f *FeedforwardNetwork) Backward(t Trace, gradLogits []float64, grads map[string]tensor.Tensor) {
	first := len(f.layers)
	for i, l := range f.layers {
		for name := range l.Parameters() {
			if _, ok := grads[name]; ok && i < first {
				first = i
			}
		}
	}
	g := gradLogits
	for i := len(f.layers) - 1; i >= first; i-- {
		g = f.layers[i].Backward(t.acts[i], t.acts[i+1], g, grads)
	}
}

// Argmax returns the index of the largest value, the first one on ties
func Argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// InTopK reports whether class is among the k largest logits
func InTopK(logits []float64, class, k int) bool {
	idx := make([]int, len(logits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return logits[idx[a]] > logits[idx[b]] })
	if k > len(idx) {
		k = len(idx)
	}
	for _, i := range idx[:k] {
		if i == class {
			return true
		}
	}
	return false
}
