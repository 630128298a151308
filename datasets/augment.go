package datasets

import "math/rand"

// GaussianNoise adds normally distributed noise to every frame value
type GaussianNoise struct {
	Mean float64
	Std  float64
}

// Enabled reports whether the noise changes samples at all
func (g GaussianNoise) Enabled() bool {
	return g.Std != 0 || g.Mean != 0
}

// Apply returns a noisy copy of s, the input is left untouched
func (g GaussianNoise) Apply(s Sample, rng *rand.Rand) Sample {
	frames := make([][]float64, len(s.Frames))
	for i, frame := range s.Frames {
		out := make([]float64, len(frame))
		for j, v := range frame {
			out[j] = v + g.Mean + g.Std*rng.NormFloat64()
		}
		frames[i] = out
	}
	return Sample{Frames: frames, Label: s.Label}
}
