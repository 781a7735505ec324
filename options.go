package shpanreservoir

import (
	"log/slog"
	"runtime"

	"github.com/shpandrak/shpanreservoir/internal/util"
	"github.com/shpandrak/shpanreservoir/metrics"
)

// Option configures a Reservoir or a ParallelReservoir.
type Option func(*options)

type options struct {
	seed             uint64
	seeds            *util.SeedSource
	logger           *slog.Logger
	metrics          metrics.Collector
	mergeConcurrency int
}

// WithSeed makes every random draw reproducible. Zero keeps the default entropy seeding.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger, slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics plugs a metrics collector, see the metrics package.
func WithMetrics(collector metrics.Collector) Option {
	return func(o *options) {
		o.metrics = collector
	}
}

// WithMergeConcurrency limits the number of pairwise merges running at the same time.
// Values <= 0 fall back to GOMAXPROCS.
func WithMergeConcurrency(concurrency int) Option {
	return func(o *options) {
		o.mergeConcurrency = concurrency
	}
}

// withSeedSource shares the parent's seed source so handles of a coordinator draw from one deterministic sequence.
func withSeedSource(seeds *util.SeedSource) Option {
	return func(o *options) {
		o.seeds = seeds
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.seeds == nil {
		o.seeds = util.NewSeedSource(o.seed)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNop()
	}
	if o.mergeConcurrency <= 0 {
		o.mergeConcurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

// childOptions returns the options passed down to the reservoir behind a new handle.
func (o *options) childOptions() []Option {
	return []Option{
		withSeedSource(o.seeds),
		WithLogger(o.logger),
		WithMetrics(o.metrics),
	}
}
