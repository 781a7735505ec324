package metrics

import "time"

// NopMetrics discards everything. It is the default collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordOffer discards the offer.
func (n *NopMetrics) RecordOffer(_ /* accepted */ bool) {}

// RecordMerge discards the merge duration.
func (n *NopMetrics) RecordMerge(_ /* duration */ time.Duration) {}

// SetHandles discards the handle count.
func (n *NopMetrics) SetHandles(_ /* count */ int) {}

// RecordNotReady discards the refusal.
func (n *NopMetrics) RecordNotReady() {}
