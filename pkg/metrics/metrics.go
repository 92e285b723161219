// Package metrics exposes the runtime's Prometheus counters and gauges,
// grounded on the teacher's pkg/metrics.Tracker (same dependency,
// github.com/prometheus/client_golang, generalized from container
// pull/build counters to model download/inference counters).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Tracker owns every metric this runtime exports. Construct one per
// process. None of the download engine, inference service, or voice
// pipeline constructors takes a Tracker, and none of them updates these
// metrics.
type Tracker struct {
	registry *prometheus.Registry

	DownloadBytesTotal     prometheus.Counter
	DownloadFailuresTotal  prometheus.Counter
	DownloadsActive        prometheus.Gauge
	ModelLoadDuration      prometheus.Histogram
	GenerationTokensTotal  prometheus.Counter
	GenerationFailuresTotal prometheus.Counter
	VoiceSessionsActive    prometheus.Gauge
}

// NewTracker constructs a Tracker and registers every metric against a
// fresh registry.
func NewTracker() *Tracker {
	registry := prometheus.NewRegistry()
	t := &Tracker{
		registry: registry,
		DownloadBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runanywhere",
			Subsystem: "download",
			Name:      "bytes_total",
			Help:      "Total bytes received across all download tasks.",
		}),
		DownloadFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runanywhere",
			Subsystem: "download",
			Name:      "failures_total",
			Help:      "Total download tasks that ended in a terminal failure.",
		}),
		DownloadsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "runanywhere",
			Subsystem: "download",
			Name:      "active",
			Help:      "Number of downloads currently in flight.",
		}),
		ModelLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "runanywhere",
			Subsystem: "inference",
			Name:      "model_load_duration_seconds",
			Help:      "Time spent loading a model into an adapter.",
			Buckets:   prometheus.DefBuckets,
		}),
		GenerationTokensTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runanywhere",
			Subsystem: "inference",
			Name:      "generation_tokens_total",
			Help:      "Total tokens produced across all generations.",
		}),
		GenerationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runanywhere",
			Subsystem: "inference",
			Name:      "generation_failures_total",
			Help:      "Total generation calls that returned an error.",
		}),
		VoiceSessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "runanywhere",
			Subsystem: "voice",
			Name:      "sessions_active",
			Help:      "Number of voice sessions currently connected.",
		}),
	}

	registry.MustRegister(
		t.DownloadBytesTotal,
		t.DownloadFailuresTotal,
		t.DownloadsActive,
		t.ModelLoadDuration,
		t.GenerationTokensTotal,
		t.GenerationFailuresTotal,
		t.VoiceSessionsActive,
	)
	return t
}

// Registry returns the underlying Prometheus registry, for wiring into an
// HTTP /metrics handler.
func (t *Tracker) Registry() *prometheus.Registry {
	return t.registry
}
