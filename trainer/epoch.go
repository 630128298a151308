package trainer

import "math"

import "github.com/pkg/errors"

import "github.com/neurlang/seqtrain/datasets"
import "github.com/neurlang/seqtrain/learning"
import "github.com/neurlang/seqtrain/net/feedforward"
import "github.com/neurlang/seqtrain/parallel"
import "github.com/neurlang/seqtrain/tensor"

// TopK is the k of the top-k validation accuracy, lowered to the number of
// classes when there are fewer.
const TopK = 5

// TrainStats summarize one training pass
type TrainStats struct {
	Loss float64
	Acc  float64
}

// ClassCount is the number of correct predictions and samples of one class
type ClassCount struct {
	Correct int
	Total   int
}

// Prediction pairs the predicted and the true class of one sample
type Prediction struct {
	Predicted int
	Expected  int
}

// EvalStats summarize one inference-only pass
type EvalStats struct {
	Loss        float64
	Acc         float64
	TopK        float64
	K           int
	Classes     []ClassCount // indexed by class, as many as the network has outputs
	Predictions []Prediction // in partition order
}

type sampleResult struct {
	grads   map[string]tensor.Tensor
	loss    float64
	correct bool
}

// TrainEpoch runs one training pass over the batches of epoch. Samples of a
// batch are processed on up to hp.Threads goroutines, their gradients are
// summed in sample order and averaged into one optimizer step.
func TrainEpoch(net *feedforward.FeedforwardNetwork, opt *learning.SGD, loader *datasets.Loader,
	epoch int, hp learning.HyperParameters) (TrainStats, error) {

	var stats TrainStats
	var n int
	for _, batch := range loader.Epoch(epoch) {
		results := parallel.Map(len(batch), hp.Threads, func(i int) sampleResult {
			s := batch[i]
			trace := net.Forward(s.Frames)
			loss, grad := learning.SmoothedCrossEntropy(trace.Logits(), s.Label, hp.LabelSmoothing)
			grads := opt.ZeroGrads()
			net.Backward(trace, grad, grads)
			return sampleResult{
				grads:   grads,
				loss:    loss,
				correct: feedforward.Argmax(trace.Logits()) == s.Label,
			}
		})
		for i, r := range results {
			if math.IsNaN(r.loss) || math.IsInf(r.loss, 0) {
				return stats, errors.Wrapf(ErrNumeric, "epoch %d, sample %d of batch: loss %v", epoch, i, r.loss)
			}
			if i > 0 {
				for name, g := range r.grads {
					results[0].grads[name].Add(g)
				}
			}
			stats.Loss += r.loss
			if r.correct {
				stats.Acc++
			}
		}
		opt.Step(results[0].grads, 1/float64(len(batch)))
		n += len(batch)
	}
	if n > 0 {
		stats.Loss /= float64(n)
		stats.Acc /= float64(n)
	}
	return stats, nil
}

type evalResult struct {
	loss      float64
	predicted int
	topK      bool
}

// Evaluate runs an inference-only pass over p in partition order
func Evaluate(net *feedforward.FeedforwardNetwork, p *datasets.Partition, hp learning.HyperParameters) (EvalStats, error) {
	classes := net.Dims().Classes
	k := TopK
	if k > classes {
		k = classes
	}
	stats := EvalStats{
		K:           k,
		Classes:     make([]ClassCount, classes),
		Predictions: make([]Prediction, len(p.Samples)),
	}
	results := parallel.Map(len(p.Samples), hp.Threads, func(i int) evalResult {
		s := p.Samples[i]
		logits := net.Forward(s.Frames).Logits()
		loss, _ := learning.SmoothedCrossEntropy(logits, s.Label, hp.LabelSmoothing)
		return evalResult{
			loss:      loss,
			predicted: feedforward.Argmax(logits),
			topK:      feedforward.InTopK(logits, s.Label, k),
		}
	})
	for i, r := range results {
		if math.IsNaN(r.loss) || math.IsInf(r.loss, 0) {
			return stats, errors.Wrapf(ErrNumeric, "evaluation sample %d: loss %v", i, r.loss)
		}
		label := p.Samples[i].Label
		stats.Loss += r.loss
		stats.Predictions[i] = Prediction{Predicted: r.predicted, Expected: label}
		if r.predicted == label {
			stats.Acc++
		}
		if r.topK {
			stats.TopK++
		}
		if label >= 0 && label < classes {
			stats.Classes[label].Total++
			if r.predicted == label {
				stats.Classes[label].Correct++
			}
		}
	}
	if n := float64(len(p.Samples)); n > 0 {
		stats.Loss /= n
		stats.Acc /= n
		stats.TopK /= n
	}
	return stats, nil
}
