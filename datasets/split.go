package datasets

import "math"
import "math/rand"

import "github.com/pkg/errors"

// epsilon absorbs representation error in fraction*count, e.g. 0.7*10
const epsilon = 1e-9

// BalancedSplit moves ceil(fraction*count) randomly chosen samples of every
// class to the validation partition and keeps the rest for training. Both
// outputs keep the original sample order and contain every class. A class
// with fewer than 2 samples cannot be split and fails with ErrPrecondition.
func BalancedSplit(p Partition, fraction float64, rng *rand.Rand) (train, val Partition, err error) {
	if !(fraction > 0 && fraction < 1) {
		return train, val, errors.Wrapf(ErrPrecondition, "validation fraction %v outside (0, 1)", fraction)
	}
	var toVal = make([]bool, len(p.Samples))
	var toTrain = make([]bool, len(p.Samples))
	for class, positions := range p.byClass() {
		n := len(positions)
		if n == 0 {
			continue
		}
		if n < 2 {
			return train, val, errors.Wrapf(ErrPrecondition,
				"class %q has %d sample, at least 2 are needed for a balanced split", p.ClassName(class), n)
		}
		k := int(math.Ceil(fraction*float64(n) - epsilon))
		if k < 1 {
			k = 1
		}
		if k > n-1 {
			k = n - 1
		}
		for j, pick := range rng.Perm(n) {
			if j < k {
				toVal[positions[pick]] = true
			} else {
				toTrain[positions[pick]] = true
			}
		}
	}
	return p.subset(toTrain, p.Augment), p.subset(toVal, false), nil
}

// FractionalSplit keeps the first floor(ratio*count) samples of every class in
// original order. It uses no randomness, so equal input order gives equal output.
func FractionalSplit(p Partition, ratio float64) (Partition, error) {
	if !(ratio > 0 && ratio <= 1) {
		return Partition{}, errors.Wrapf(ErrPrecondition, "train split ratio %v outside (0, 1]", ratio)
	}
	var keep = make([]bool, len(p.Samples))
	for _, positions := range p.byClass() {
		k := int(math.Floor(ratio*float64(len(positions)) + epsilon))
		for _, pos := range positions[:k] {
			keep[pos] = true
		}
	}
	return p.subset(keep, p.Augment), nil
}
