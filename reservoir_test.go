package shpanreservoir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReservoir_InvalidCapacity(t *testing.T) {
	_, err := NewReservoir[int](0)
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewReservoir[int](-3)
	require.ErrorIs(t, err, ErrInvalidCapacity)

	require.Panics(t, func() {
		MustNewReservoir[int](0)
	})
}

func TestReservoir_CapacityInvariant(t *testing.T) {
	r := MustNewReservoir[int](10, WithSeed(7))
	for i := 0; i < 1000; i++ {
		r.TrySample(i)
		require.Equal(t, i+1, r.Population())
		require.Len(t, r.samples, min(r.Population(), r.Capacity()))
	}
}

func TestReservoir_NoLossUnderCapacity(t *testing.T) {
	r := MustNewReservoir[string](5, WithSeed(1))
	elements := []string{"a", "b", "c", "d", "e"}
	for _, e := range elements {
		require.True(t, r.TrySample(e))
	}

	res, err := r.GetSampleResult()
	require.NoError(t, err)
	require.ElementsMatch(t, elements, res.Samples())
	require.Equal(t, 5, res.Population())
}

func TestReservoir_ReadinessGate(t *testing.T) {
	r := MustNewReservoir[int](3)

	for i := 0; i < 3; i++ {
		require.False(t, r.HaveSampleResult())
		_, err := r.GetSampleResult()
		require.ErrorIs(t, err, ErrNotEnoughElements)
		r.TrySample(i)
	}

	// Full from now on, no matter how many more elements come in
	for i := 3; i < 100; i++ {
		require.True(t, r.HaveSampleResult())
		_, err := r.GetSampleResult()
		require.NoError(t, err)
		r.TrySample(i)
	}
}

func TestReservoir_IdempotentSnapshot(t *testing.T) {
	r := MustNewReservoir[int](20, WithSeed(3))
	TrySampleAll[int](r, rangeSeq(0, 500))

	first, err := r.GetSampleResult()
	require.NoError(t, err)
	second, err := r.GetSampleResult()
	require.NoError(t, err)

	require.Equal(t, first.Population(), second.Population())
	require.Equal(t, first.Samples(), second.Samples())
}

func TestSampleResult_IsImmutable(t *testing.T) {
	src := []int{1, 2, 3}
	res := NewSampleResult(src, 10)
	src[0] = 100

	samples := res.Samples()
	samples[1] = 200

	require.Equal(t, []int{1, 2, 3}, res.Samples())
	require.Equal(t, 3, res.Len())
	require.Equal(t, 10, res.Population())
}

func TestReservoir_SameSeedSameSample(t *testing.T) {
	one := MustNewReservoir[int](10, WithSeed(42))
	other := MustNewReservoir[int](10, WithSeed(42))
	TrySampleAll[int](one, rangeSeq(0, 1000))
	TrySampleAll[int](other, rangeSeq(0, 1000))

	require.Equal(t, one.samples, other.samples)
}

func TestReservoir_InclusionIsUniform(t *testing.T) {
	const (
		streamLength = 100
		capacity     = 10
		trials       = 20_000
	)

	included := make([]int, streamLength)
	accepted := make([]int, streamLength)

	for trial := 0; trial < trials; trial++ {
		r := MustNewReservoir[int](capacity, WithSeed(uint64(trial+1)))
		for x := 0; x < streamLength; x++ {
			if r.TrySample(x) {
				accepted[x]++
			}
		}
		res, err := r.GetSampleResult()
		require.NoError(t, err)
		for _, x := range res.Samples() {
			included[x]++
		}
	}

	// every element ends up in the sample with probability capacity/streamLength
	expected := float64(trials) * capacity / streamLength
	for x, count := range included {
		require.InDelta(t, expected, float64(count), expected*0.1, "inclusion count of %d", x)
	}

	// the n-th element is accepted with probability capacity/n
	for _, n := range []int{1, capacity, capacity + 1, 20, 50, streamLength} {
		p := math.Min(1, float64(capacity)/float64(n))
		got := float64(accepted[n-1]) / trials
		require.InDelta(t, p, got, 0.02, "acceptance rate of element %d", n)
	}
}

func TestReservoir_InclusionIsUniformLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large statistical test in short mode")
	}
	const (
		streamLength = 10_000
		capacity     = 100
		trials       = 10_000
	)

	included := make([]int, streamLength)
	for trial := 0; trial < trials; trial++ {
		r := MustNewReservoir[int](capacity, WithSeed(uint64(trial+1)))
		TrySampleAll[int](r, rangeSeq(0, streamLength))
		res, err := r.GetSampleResult()
		require.NoError(t, err)
		for _, x := range res.Samples() {
			included[x]++
		}
	}

	// 1% each, checked in buckets of 100 elements to keep the tolerance meaningful
	const bucket = 100
	expected := float64(trials) * capacity / streamLength * bucket
	for start := 0; start < streamLength; start += bucket {
		sum := 0
		for _, c := range included[start : start+bucket] {
			sum += c
		}
		require.InDelta(t, expected, float64(sum), expected*0.05, "bucket starting at %d", start)
	}
}

func TestReservoir_ErrorsAreWrapped(t *testing.T) {
	_, err := NewReservoir[int](0)
	require.True(t, errors.Is(err, ErrInvalidCapacity))
	require.Contains(t, err.Error(), "capacity 0")
}
