// Package datasets implements labeled sequence samples, dataset partitions and
// the partitioning strategies used to build train, validation and test sets.
package datasets

import "strconv"

// Sample is one labeled sequence of frames. Every frame has the same width.
type Sample struct {
	Frames [][]float64
	Label  int
}

// Partition is an ordered collection of samples plus the class names and the
// per-class frequencies of the samples it holds.
type Partition struct {
	Samples []Sample

	// Labels maps class index to human-readable class name
	Labels []string

	// Freq is the number of samples per class index
	Freq []int

	// Augment reports whether the loader may augment samples of this partition
	Augment bool
}

// NewPartition creates a partition and computes its frequencies
func NewPartition(samples []Sample, labels []string, augment bool) Partition {
	p := Partition{
		Samples: samples,
		Labels:  labels,
		Augment: augment,
	}
	p.Freq = Frequencies(samples, len(labels))
	return p
}

// Frequencies counts samples per class. Labels outside [0, classes) are ignored.
func Frequencies(samples []Sample, classes int) []int {
	freq := make([]int, classes)
	for _, s := range samples {
		if s.Label >= 0 && s.Label < classes {
			freq[s.Label]++
		}
	}
	return freq
}

// Len returns the number of samples
func (p Partition) Len() int {
	return len(p.Samples)
}

// Classes returns the number of classes known to the partition
func (p Partition) Classes() int {
	return len(p.Labels)
}

// Dim returns the frame width, 0 for an empty partition
func (p Partition) Dim() int {
	for _, s := range p.Samples {
		if len(s.Frames) > 0 {
			return len(s.Frames[0])
		}
	}
	return 0
}

// ClassName returns the name of class n, or its number when unnamed
func (p Partition) ClassName(n int) string {
	if n >= 0 && n < len(p.Labels) {
		return p.Labels[n]
	}
	return "#" + strconv.Itoa(n)
}

// byClass returns the sample positions of every class in original order
func (p Partition) byClass() [][]int {
	classes := len(p.Labels)
	for _, s := range p.Samples {
		if s.Label >= classes {
			classes = s.Label + 1
		}
	}
	o := make([][]int, classes)
	for i, s := range p.Samples {
		o[s.Label] = append(o[s.Label], i)
	}
	return o
}

// subset builds a partition from selected positions kept in original order
func (p Partition) subset(keep []bool, augment bool) Partition {
	var samples []Sample
	for i, s := range p.Samples {
		if keep[i] {
			samples = append(samples, s)
		}
	}
	return NewPartition(samples, p.Labels, augment)
}
