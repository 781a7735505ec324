package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	offers        *prometheus.CounterVec
	accepted      prometheus.Counter
	rejected      prometheus.Counter
	merges        prometheus.Counter
	mergeDuration prometheus.Histogram
	handles       prometheus.Gauge
	notReady      prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "reservoir" if empty)
//
// Metrics are registered lazily on first use. Registering the same namespace twice on one
// registerer reuses the already registered collectors.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "reservoir"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.offers = register(p.reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "sampler",
			Name:      "offers_total",
			Help:      "Total elements offered to reservoirs by outcome (accepted, rejected).",
		}, []string{"outcome"}))
		p.accepted = p.offers.WithLabelValues("accepted")
		p.rejected = p.offers.WithLabelValues("rejected")

		p.merges = register(p.reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "merges_total",
			Help:      "Total pairwise merges performed.",
		}))

		p.mergeDuration = register(p.reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "merge_duration_seconds",
			Help:      "Duration of a single pairwise merge in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us .. ~2.6s
		}))

		p.handles = register(p.reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "handles",
			Help:      "Number of sampler handles registered with the coordinator.",
		}))

		p.notReady = register(p.reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "not_ready_total",
			Help:      "Result requests refused because a reservoir was not full yet.",
		}))
	})
}

// register registers c, or returns the collector already registered under the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RecordOffer counts an offered element.
func (p *PrometheusCollector) RecordOffer(accepted bool) {
	p.ensureRegistered()
	if accepted {
		p.accepted.Inc()
	} else {
		p.rejected.Inc()
	}
}

// RecordMerge counts a merge and observes its duration.
func (p *PrometheusCollector) RecordMerge(duration time.Duration) {
	p.ensureRegistered()
	p.merges.Inc()
	p.mergeDuration.Observe(duration.Seconds())
}

// SetHandles sets the handle gauge.
func (p *PrometheusCollector) SetHandles(count int) {
	p.ensureRegistered()
	p.handles.Set(float64(count))
}

// RecordNotReady counts a refused result request.
func (p *PrometheusCollector) RecordNotReady() {
	p.ensureRegistered()
	p.notReady.Inc()
}
