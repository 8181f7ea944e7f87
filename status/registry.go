package status

import (
	"strconv"
	"sync/atomic"
)

// Key names one session metric
type Key string

const (
	KeyTicks             Key = "engine.ticks"
	KeyNetSent           Key = "net.sent"
	KeyNetDropped        Key = "net.dropped"
	KeyNetReceived       Key = "net.received"
	KeyDecodeErrors      Key = "net.decode_errors"
	KeyQueueDropped      Key = "net.queue_dropped"
	KeyBlocksDestroyed   Key = "block.destroyed"
	KeyDuplicateDestroys Key = "block.duplicate_destroys"
	KeyDestroyTimeouts   Key = "block.destroy_timeouts"
	KeyScoreTotal        Key = "score.total"
	KeyPeers             Key = "session.peers"
	KeyRole              Key = "session.role"
)

// Registry holds the session's counters, gauges and labels
// All methods are safe for concurrent use; a nil Registry ignores writes
type Registry struct {
	Counters *Metrics[atomic.Int64]
	Gauges   *Metrics[Gauge]
	Labels   *Metrics[Label]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: newMetrics[atomic.Int64](),
		Gauges:   newMetrics[Gauge](),
		Labels:   newMetrics[Label](),
	}
}

// Count adds delta to a counter
func (r *Registry) Count(key Key, delta int64) {
	if r == nil {
		return
	}
	r.Counters.Get(key).Add(delta)
}

// Counter reads a counter
func (r *Registry) Counter(key Key) int64 {
	if r == nil {
		return 0
	}
	return r.Counters.Get(key).Load()
}

// SetGauge stores a gauge value
func (r *Registry) SetGauge(key Key, v float64) {
	if r == nil {
		return
	}
	r.Gauges.Get(key).Set(v)
}

// SetLabel stores a label value
func (r *Registry) SetLabel(key Key, v string) {
	if r == nil {
		return
	}
	r.Labels.Get(key).Store(v)
}

// Lines renders "key=value" for the overlay and status log: labels, then counters, then gauges
func (r *Registry) Lines() []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, r.Labels.Len()+r.Counters.Len()+r.Gauges.Len())
	r.Labels.each(func(k Key, v *Label) {
		lines = append(lines, string(k)+"="+v.Load())
	})
	r.Counters.each(func(k Key, v *atomic.Int64) {
		lines = append(lines, string(k)+"="+strconv.FormatInt(v.Load(), 10))
	})
	r.Gauges.each(func(k Key, v *Gauge) {
		lines = append(lines, string(k)+"="+strconv.FormatFloat(v.Get(), 'f', 1, 64))
	})
	return lines
}
