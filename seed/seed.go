// Package seed derives every random source used by a training run from one seed.
package seed

import "math/rand"

import "github.com/jbarham/primegen"

// Stream names one consumer of randomness
type Stream int

const (
	Init    Stream = iota // weight initialization
	Split                 // balanced validation split
	Shuffle               // per-epoch sample order
	Augment               // per-epoch augmentation noise
	Head                  // classification head replaced by transfer learning

	numStreams
)

// primes start above this bound so that stream multipliers are large and odd
const primeBase = 1 << 20

// Seeder hands out independent deterministic generators per stream and epoch
type Seeder struct {
	seed   int64
	primes [numStreams + 1]uint64
}

// New creates a seeder. It must run before anything consumes randomness.
func New(seed int64) *Seeder {
	s := &Seeder{seed: seed}
	pg := primegen.New()
	pg.SkipTo(primeBase)
	for i := range s.primes {
		s.primes[i] = pg.Next()
	}
	return s
}

// Derive returns the sub-seed for stream and epoch
func (s *Seeder) Derive(stream Stream, epoch int) int64 {
	x := uint64(s.seed)*s.primes[stream] + uint64(epoch+1)*s.primes[numStreams]
	return int64(splitmix64(x) >> 1)
}

// Rand returns a fresh generator for stream and epoch. Streams that are not
// tied to an epoch use epoch 0.
func (s *Seeder) Rand(stream Stream, epoch int) *rand.Rand {
	return rand.New(rand.NewSource(s.Derive(stream, epoch)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
