package shpanreservoir

import (
	"fmt"
	"sync"
)

// SamplerHandle is a concurrency safe reference to one Reservoir.
// It is meant to be written by exactly one producer while a coordinator reads it.
//
// If a panic escapes while the handle's lock is held, the reservoir may be half-updated.
// The handle is then poisoned: TrySample and HaveSampleResult panic with an error wrapping ErrPoisoned,
// GetSampleResult returns it.
type SamplerHandle[T any] struct {
	mu        sync.Mutex
	reservoir *Reservoir[T]
	poisoned  bool
}

// Compile-time assertion that SamplerHandle implements Sampler.
var _ Sampler[int] = (*SamplerHandle[int])(nil)

// NewSamplerHandle wraps a new reservoir of the given capacity.
func NewSamplerHandle[T any](capacity int, opts ...Option) (*SamplerHandle[T], error) {
	r, err := NewReservoir[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &SamplerHandle[T]{reservoir: r}, nil
}

func (h *SamplerHandle[T]) TrySample(element T) bool {
	return withReservoir(h, func(r *Reservoir[T]) bool {
		return r.TrySample(element)
	})
}

func (h *SamplerHandle[T]) GetSampleResult() (SampleResult[T], error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.poisoned {
		return SampleResult[T]{}, h.poisonedErr()
	}
	return h.reservoir.GetSampleResult()
}

func (h *SamplerHandle[T]) HaveSampleResult() bool {
	return withReservoir(h, func(r *Reservoir[T]) bool {
		return r.HaveSampleResult()
	})
}

// Population reads the population of the underlying reservoir.
func (h *SamplerHandle[T]) Population() int {
	return withReservoir(h, func(r *Reservoir[T]) int {
		return r.Population()
	})
}

// Poisoned reports whether a previous operation panicked while holding the lock.
func (h *SamplerHandle[T]) Poisoned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.poisoned
}

func (h *SamplerHandle[T]) poisonedErr() error {
	return fmt.Errorf("reservoir with capacity %d: %w", h.reservoir.Capacity(), ErrPoisoned)
}

// withReservoir runs f under the handle lock, poisoning the handle if f does not return.
func withReservoir[T any, R any](h *SamplerHandle[T], f func(r *Reservoir[T]) R) R {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.poisoned {
		panic(h.poisonedErr())
	}

	completed := false
	defer func() {
		if !completed {
			h.poisoned = true
		}
	}()
	ret := f(h.reservoir)
	completed = true
	return ret
}
