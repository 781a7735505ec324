package shpanreservoir

import (
	"context"
	"fmt"
	"iter"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ParallelReservoir samples concurrently through several independent reservoirs, one per producer,
// and merges them into a single sample that is statistically equivalent to sampling the
// interleaved stream sequentially.
type ParallelReservoir[T any] struct {
	capacity int
	opts     *options

	mu      sync.RWMutex
	handles []*SamplerHandle[T]
}

// NewParallelReservoir creates a coordinator whose handles all sample capacity elements.
func NewParallelReservoir[T any](capacity int, opts ...Option) (*ParallelReservoir[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("failed to create parallel reservoir with capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	return &ParallelReservoir[T]{
		capacity: capacity,
		opts:     newOptions(opts),
	}, nil
}

// MustNewParallelReservoir is like NewParallelReservoir but panics on an invalid capacity.
func MustNewParallelReservoir[T any](capacity int, opts ...Option) *ParallelReservoir[T] {
	p, err := NewParallelReservoir[T](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// GetSamplerHandle registers a new reservoir and returns the handle a single producer should write to.
// Register all handles before the first GetSampleResult call.
func (p *ParallelReservoir[T]) GetSamplerHandle() *SamplerHandle[T] {
	handle := &SamplerHandle[T]{reservoir: MustNewReservoir[T](p.capacity, p.opts.childOptions()...)}

	p.mu.Lock()
	p.handles = append(p.handles, handle)
	count := len(p.handles)
	p.mu.Unlock()

	p.opts.metrics.SetHandles(count)
	p.opts.logger.Debug("sampler handle registered", "handles", count, "capacity", p.capacity)
	return handle
}

// HaveSampleResult is true when every registered handle is full. It gates GetSampleResult.
// A coordinator without handles has no result.
func (p *ParallelReservoir[T]) HaveSampleResult() bool {
	return p.allReady(p.snapshotHandles())
}

// GetSampleResult snapshots every handle and reduces the snapshots into one sample with pairwise merges.
// Fails with ErrNotEnoughElements, without reading any sample, if a handle is not full yet,
// and with ErrPoisoned if a producer panicked while holding its handle.
func (p *ParallelReservoir[T]) GetSampleResult() (SampleResult[T], error) {
	handles := p.snapshotHandles()
	for _, h := range handles {
		if h.Poisoned() {
			return SampleResult[T]{}, h.poisonedErr()
		}
	}
	if !p.allReady(handles) {
		p.opts.metrics.RecordNotReady()
		p.opts.logger.Debug("parallel sample result not ready", "handles", len(handles))
		return SampleResult[T]{}, fmt.Errorf(
			"not every one of %d handles has %d elements: %w", len(handles), p.capacity, ErrNotEnoughElements,
		)
	}

	results := make([]SampleResult[T], 0, len(handles))
	for _, h := range handles {
		r, err := h.GetSampleResult()
		if err != nil {
			return SampleResult[T]{}, err
		}
		results = append(results, r)
	}

	return p.reduce(results)
}

// Capacity is the sample size shared by every handle.
func (p *ParallelReservoir[T]) Capacity() int {
	return p.capacity
}

// Handles returns the number of registered handles.
func (p *ParallelReservoir[T]) Handles() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handles)
}

// SampleConcurrently registers one handle per source and feeds each source through its own handle in its own goroutine.
// It returns once every source is exhausted, on the first producer failure, or when ctx is done.
func (p *ParallelReservoir[T]) SampleConcurrently(ctx context.Context, sources ...iter.Seq[T]) error {
	handles := make([]*SamplerHandle[T], len(sources))
	for i := range sources {
		handles[i] = p.GetSamplerHandle()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		handle := handles[i]
		g.Go(func() (err error) {
			defer p.recoverInto(&err, "producer")
			for v := range src {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				handle.TrySample(v)
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *ParallelReservoir[T]) snapshotHandles() []*SamplerHandle[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*SamplerHandle[T](nil), p.handles...)
}

func (p *ParallelReservoir[T]) allReady(handles []*SamplerHandle[T]) bool {
	if len(handles) == 0 {
		return false
	}
	for _, h := range handles {
		if !h.HaveSampleResult() {
			return false
		}
	}
	return true
}

// reduce merges results down to one. The buffered channel acts as a blocking queue:
// two results are taken, a worker merges them and puts the output back, exactly len(results)-1 times.
func (p *ParallelReservoir[T]) reduce(results []SampleResult[T]) (SampleResult[T], error) {
	if len(results) == 1 {
		return results[0], nil
	}

	started := time.Now()
	p.opts.logger.Debug("merging sample results", "results", len(results), "capacity", p.capacity)

	queue := make(chan SampleResult[T], len(results))
	for _, r := range results {
		queue <- r
	}

	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.opts.mergeConcurrency)

	pop := func() (SampleResult[T], bool) {
		select {
		case r := <-queue:
			return r, true
		case <-gctx.Done():
			return SampleResult[T]{}, false
		}
	}

	for range len(results) - 1 {
		a, ok := pop()
		if !ok {
			break
		}
		b, ok := pop()
		if !ok {
			break
		}
		rng := p.opts.seeds.NewRand()
		g.Go(func() (err error) {
			defer p.recoverInto(&err, "merge worker")
			mergeStarted := time.Now()
			merged, err := Merge(a, b, p.capacity, rng)
			if err != nil {
				return err
			}
			p.opts.metrics.RecordMerge(time.Since(mergeStarted))
			queue <- merged
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SampleResult[T]{}, fmt.Errorf("failed to merge sample results: %w", err)
	}

	merged := <-queue
	p.opts.logger.Debug(
		"sample results merged",
		"population", merged.Population(),
		"duration", time.Since(started),
	)
	return merged, nil
}

// recoverInto turns a panic of a worker goroutine into an error, keeping the first error if already set.
func (p *ParallelReservoir[T]) recoverInto(err *error, worker string) {
	rvr := recover()
	if rvr == nil {
		return
	}
	p.opts.logger.Error(fmt.Sprintf("Panic recovered in %s: %v\n%s", worker, rvr, debug.Stack()))
	if asErr, ok := rvr.(error); ok {
		*err = fmt.Errorf("%s recovered error: %w", worker, asErr)
	} else {
		*err = fmt.Errorf("%s recovered error value: %v", worker, rvr)
	}
}
