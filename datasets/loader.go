package datasets

import "math/rand"

import "github.com/neurlang/seqtrain/seed"

// Loader yields the batches of one partition for an epoch. Sample order and
// augmentation noise depend only on the seed and the epoch number, so any
// epoch can be replayed exactly, including after a resume.
type Loader struct {
	part    *Partition
	batch   int
	shuffle bool
	noise   GaussianNoise
	seeder  *seed.Seeder
}

// NewLoader creates a loader. A batch size below 1 means 1.
func NewLoader(p *Partition, batch int, shuffle bool, noise GaussianNoise, seeder *seed.Seeder) *Loader {
	if batch < 1 {
		batch = 1
	}
	return &Loader{
		part:    p,
		batch:   batch,
		shuffle: shuffle,
		noise:   noise,
		seeder:  seeder,
	}
}

// Partition returns the partition the loader reads
func (l *Loader) Partition() *Partition {
	return l.part
}

// Order returns the sample positions in the order they are visited in epoch
func (l *Loader) Order(epoch int) []int {
	n := len(l.part.Samples)
	if l.shuffle && l.seeder != nil {
		return l.seeder.Rand(seed.Shuffle, epoch).Perm(n)
	}
	o := make([]int, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// Epoch returns the batches of epoch
func (l *Loader) Epoch(epoch int) (batches [][]Sample) {
	order := l.Order(epoch)
	augment := l.part.Augment && l.noise.Enabled() && l.seeder != nil
	var rng *rand.Rand
	if augment {
		rng = l.seeder.Rand(seed.Augment, epoch)
	}
	for start := 0; start < len(order); start += l.batch {
		end := start + l.batch
		if end > len(order) {
			end = len(order)
		}
		batch := make([]Sample, 0, end-start)
		for _, pos := range order[start:end] {
			s := l.part.Samples[pos]
			if rng != nil {
				s = l.noise.Apply(s, rng)
			}
			batch = append(batch, s)
		}
		batches = append(batches, batch)
	}
	return batches
}
