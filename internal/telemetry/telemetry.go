// Package telemetry provides optional Prometheus instrumentation for
// the engine. Every Recorder method is nil-safe: a Recorder built
// without a registry costs nothing and never needs a nil check at the
// call site.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the instruments a running engine reports against. A
// nil *Recorder is always a valid no-op, mirroring how a nil output
// channel is safely ignored elsewhere in this codebase.
type Recorder struct {
	probeDuration *prometheus.HistogramVec
	timeouts      *prometheus.CounterVec
	queueDepth    prometheus.Gauge
}

// New creates a Recorder and registers its instruments with reg. reg
// may be the caller's own *prometheus.Registry, or prometheus's
// default registry; this package never starts its own HTTP server —
// exposing /metrics is the caller's responsibility.
func New(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	r := &Recorder{
		probeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "duration_seconds",
				Help:      "Duration of a single volume health probe.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
			},
			[]string{"operation", "status"},
		),
		timeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "timeouts_total",
				Help:      "Number of probes that did not complete within their budget.",
			},
			[]string{"operation"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "workerpool",
				Name:      "queue_depth",
				Help:      "Number of jobs currently queued and not yet picked up by a worker.",
			},
		),
	}

	collectors := []prometheus.Collector{r.probeDuration, r.timeouts, r.queueDepth}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveProbe records how long a probe took and whether it succeeded.
func (r *Recorder) ObserveProbe(operation, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.probeDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// IncTimeout records that a probe's timeout budget was exceeded.
func (r *Recorder) IncTimeout(operation string) {
	if r == nil {
		return
	}
	r.timeouts.WithLabelValues(operation).Inc()
}

// SetQueueDepth reports the worker pool's current count of queued
// jobs that no worker has picked up yet.
func (r *Recorder) SetQueueDepth(depth int) {
	if r == nil {
		return
	}
	r.queueDepth.Set(float64(depth))
}
