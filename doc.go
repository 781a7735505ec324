// Package shpanreservoir samples a fixed number of elements uniformly from a stream of unknown length.
//
// Reservoir implements Algorithm R for a single producer. ParallelReservoir hands out one SamplerHandle per
// concurrent producer and merges the per-producer samples into one sample that is as uniform as if the
// interleaved stream had been sampled sequentially.
//
//	pr := shpanreservoir.MustNewParallelReservoir[int](100)
//	h1, h2 := pr.GetSamplerHandle(), pr.GetSamplerHandle()
//	// feed h1 and h2 from two goroutines, then
//	res, err := pr.GetSampleResult()
//
// Results are only available once every reservoir holds its full capacity, see ErrNotEnoughElements.
package shpanreservoir
