package host

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the host's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "nexa").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event cycle duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the event duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = r
	}
}

// Metrics aggregates the host's instrumentation.
type Metrics struct {
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	EventsTotal    *prometheus.CounterVec
	BatchesTotal   prometheus.Counter
	MutationsTotal prometheus.Counter
	BatchBytes     prometheus.Counter
	EventDuration  prometheus.Histogram
	DecodeErrors   prometheus.Counter
}

// NewMetrics registers and returns the host metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := &MetricsConfig{
		Namespace: "nexa",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "sessions_active",
			Help:        "Number of live applier sessions.",
			ConstLabels: cfg.ConstLabels,
		}),
		SessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "sessions_total",
			Help:        "Total applier sessions accepted.",
			ConstLabels: cfg.ConstLabels,
		}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "events_total",
			Help:        "Events dispatched into runtimes, by event name.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"event"}),
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "mutation_batches_total",
			Help:        "Mutation batches sent to appliers.",
			ConstLabels: cfg.ConstLabels,
		}),
		MutationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "mutations_total",
			Help:        "Individual mutation records sent.",
			ConstLabels: cfg.ConstLabels,
		}),
		BatchBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "mutation_batch_bytes_total",
			Help:        "Encoded mutation batch bytes sent.",
			ConstLabels: cfg.ConstLabels,
		}),
		EventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "event_duration_seconds",
			Help:        "Duration of one event dispatch → drain cycle.",
			Buckets:     cfg.Buckets,
			ConstLabels: cfg.ConstLabels,
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "frame_decode_errors_total",
			Help:        "Frames rejected by the protocol decoder.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
