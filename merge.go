package shpanreservoir

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Merge combines two full samples into one sample of the given capacity that is uniform over the
// union of both populations.
//
// Each output slot picks a from with probability a.Population()/(a.Population()+b.Population()) and b otherwise,
// then takes one not yet taken element of the chosen side uniformly at random.
// Both inputs must hold at least capacity samples. The inputs are not modified.
// A nil rng uses a freshly seeded generator.
func Merge[T any](a, b SampleResult[T], capacity int, rng *rand.Rand) (SampleResult[T], error) {
	if capacity <= 0 {
		return SampleResult[T]{}, fmt.Errorf("failed to merge with capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	if a.Len() < capacity || b.Len() < capacity {
		return SampleResult[T]{}, fmt.Errorf(
			"failed to merge samples of size %d and %d into %d: %w", a.Len(), b.Len(), capacity, ErrNotEnoughElements,
		)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	fromA := float64(a.population) / float64(a.population+b.population)

	left := slices.Clone(a.samples)
	right := slices.Clone(b.samples)
	merged := make([]T, 0, capacity)

	for range capacity {
		if rng.Float64() < fromA {
			merged, left = takeRandom(rng, merged, left)
		} else {
			merged, right = takeRandom(rng, merged, right)
		}
	}

	return SampleResult[T]{samples: merged, population: a.population + b.population}, nil
}

// takeRandom moves one uniformly chosen element of src to dst. Order of src is not kept.
func takeRandom[T any](rng *rand.Rand, dst []T, src []T) ([]T, []T) {
	idx := rng.IntN(len(src))
	dst = append(dst, src[idx])
	last := len(src) - 1
	src[idx] = src[last]
	return dst, src[:last]
}
