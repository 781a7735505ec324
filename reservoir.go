package shpanreservoir

import (
	"fmt"
	"math/rand/v2"

	"github.com/shpandrak/shpanreservoir/metrics"
)

// Reservoir keeps a uniform random sample of fixed size over a stream of unknown length (Algorithm R).
// After n offered elements every one of them is resident with probability capacity/n.
//
// A Reservoir is not safe for concurrent use, see SamplerHandle.
type Reservoir[T any] struct {
	capacity   int
	population int
	samples    []T

	rng     *rand.Rand
	metrics metrics.Collector
}

// Compile-time assertion that Reservoir implements Sampler.
var _ Sampler[int] = (*Reservoir[int])(nil)

// NewReservoir creates a reservoir holding up to capacity samples.
func NewReservoir[T any](capacity int, opts ...Option) (*Reservoir[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("failed to create reservoir with capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	o := newOptions(opts)
	return &Reservoir[T]{
		capacity: capacity,
		samples:  make([]T, 0, capacity),
		rng:      o.seeds.NewRand(),
		metrics:  o.metrics,
	}, nil
}

// MustNewReservoir is like NewReservoir but panics on an invalid capacity.
func MustNewReservoir[T any](capacity int, opts ...Option) *Reservoir[T] {
	r, err := NewReservoir[T](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Reservoir[T]) TrySample(element T) bool {
	accepted := r.trySample(element)
	r.metrics.RecordOffer(accepted)
	return accepted
}

func (r *Reservoir[T]) trySample(element T) bool {
	// Filling up, every element is kept
	if r.population < r.capacity {
		r.samples = append(r.samples, element)
		r.population++
		return true
	}

	// Population must already count this element for the capacity/population odds to hold
	r.population++

	coin := r.rng.Float64()
	if float64(r.capacity)/float64(r.population) > coin {
		r.samples[r.rng.IntN(r.capacity)] = element
		return true
	}
	return false
}

func (r *Reservoir[T]) GetSampleResult() (SampleResult[T], error) {
	if !r.HaveSampleResult() {
		return SampleResult[T]{}, fmt.Errorf(
			"reservoir has %d of %d elements: %w", r.population, r.capacity, ErrNotEnoughElements,
		)
	}
	return NewSampleResult(r.samples, r.population), nil
}

func (r *Reservoir[T]) HaveSampleResult() bool {
	return r.population >= r.capacity
}

// Capacity is the target sample size.
func (r *Reservoir[T]) Capacity() int {
	return r.capacity
}

// Population is the number of elements offered so far, rejected ones included.
func (r *Reservoir[T]) Population() int {
	return r.population
}
