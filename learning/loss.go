package learning

import "math"

// Softmax returns the normalized exponentials of logits
func Softmax(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, v := range logits {
		if v > max {
			max = v
		}
	}
	o := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		o[i] = math.Exp(v - max)
		sum += o[i]
	}
	for i := range o {
		o[i] /= sum
	}
	return o
}

// SmoothedCrossEntropy computes the label smoothed cross entropy of logits
// against class target and its gradient with respect to the logits. The target
// distribution is (1-smoothing) on target plus smoothing/K on every class.
func SmoothedCrossEntropy(logits []float64, target int, smoothing float64) (loss float64, grad []float64) {
	p := Softmax(logits)
	k := float64(len(logits))
	grad = make([]float64, len(logits))
	for i, pi := range p {
		q := smoothing / k
		if i == target {
			q += 1 - smoothing
		}
		loss -= q * math.Log(math.Max(pi, math.SmallestNonzeroFloat64))
		grad[i] = pi - q
	}
	return loss, grad
}
