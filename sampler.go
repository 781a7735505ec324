package shpanreservoir

import (
	"context"
	"iter"
	"slices"
)

// Sampler is the capability shared by a plain Reservoir and a SamplerHandle.
type Sampler[T any] interface {
	// TrySample offers one element, returns whether it was retained in the current sample
	TrySample(element T) bool

	// GetSampleResult returns a snapshot of the current sample.
	// Fails with ErrNotEnoughElements while HaveSampleResult is false.
	GetSampleResult() (SampleResult[T], error)

	// HaveSampleResult reports whether the sample is full, i.e. population >= capacity
	HaveSampleResult() bool
}

// SampleResult is an immutable snapshot of a sample together with the population it was drawn from.
type SampleResult[T any] struct {
	samples    []T
	population int
}

// NewSampleResult creates a result, the samples slice is copied.
func NewSampleResult[T any](samples []T, population int) SampleResult[T] {
	return SampleResult[T]{samples: slices.Clone(samples), population: population}
}

// Samples returns a copy of the sampled elements. Order carries no meaning.
func (r SampleResult[T]) Samples() []T {
	return slices.Clone(r.samples)
}

// Population is the number of elements offered to the reservoir(s) that produced this result.
func (r SampleResult[T]) Population() int {
	return r.population
}

// Len is the number of sampled elements.
func (r SampleResult[T]) Len() int {
	return len(r.samples)
}

// TrySampleAll offers every element of seq to the sampler and returns how many were retained.
func TrySampleAll[T any](s Sampler[T], seq iter.Seq[T]) int {
	accepted := 0
	for v := range seq {
		if s.TrySample(v) {
			accepted++
		}
	}
	return accepted
}

// TrySampleChannel offers every element received from ch until it is closed.
// Returns how many elements were retained, and ctx.Err() if the context is done first.
func TrySampleChannel[T any](ctx context.Context, s Sampler[T], ch <-chan T) (int, error) {
	accepted := 0
	for {
		select {
		case <-ctx.Done():
			return accepted, ctx.Err()
		case v, stillGood := <-ch:
			if !stillGood {
				return accepted, nil
			}
			if s.TrySample(v) {
				accepted++
			}
		}
	}
}
