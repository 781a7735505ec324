package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "test")

	c.RecordOffer(true)
	c.RecordOffer(true)
	c.RecordOffer(false)
	c.RecordMerge(5 * time.Millisecond)
	c.SetHandles(4)
	c.RecordNotReady()

	require.Equal(t, 2.0, testutil.ToFloat64(c.offers.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.offers.WithLabelValues("rejected")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.merges))
	require.Equal(t, 4.0, testutil.ToFloat64(c.handles))
	require.Equal(t, 1.0, testutil.ToFloat64(c.notReady))

	count, err := testutil.GatherAndCount(reg, "test_coordinator_merge_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestPrometheusCollector_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	one := NewPrometheus(reg, "shared")
	other := NewPrometheus(reg, "shared")

	// Both collectors end up on the same underlying series
	one.RecordOffer(true)
	other.RecordOffer(true)

	require.Equal(t, 2.0, testutil.ToFloat64(one.accepted))
	require.Equal(t, 2.0, testutil.ToFloat64(other.accepted))
}

func TestPrometheusCollector_Defaults(t *testing.T) {
	c := NewPrometheus(nil, "")
	require.Equal(t, prometheus.DefaultRegisterer, c.reg)
	require.Equal(t, "reservoir", c.namespace)
}

func TestNopMetrics(t *testing.T) {
	var c Collector = NewNop()
	require.NotPanics(t, func() {
		c.RecordOffer(true)
		c.RecordMerge(time.Second)
		c.SetHandles(3)
		c.RecordNotReady()
	})
}
