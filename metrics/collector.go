// Package metrics provides the instrumentation hooks used by reservoirs and coordinators.
package metrics

import "time"

// Collector receives sampling events.
//
// Implementations must be safe for concurrent use, every producer goroutine reports through the same collector.
type Collector interface {
	// RecordOffer is called once per offered element with whether it was retained.
	RecordOffer(accepted bool)

	// RecordMerge is called after every pairwise merge.
	RecordMerge(duration time.Duration)

	// SetHandles reports the number of handles registered with a coordinator.
	SetHandles(count int)

	// RecordNotReady is called when a result was requested before every reservoir was full.
	RecordNotReady()
}
