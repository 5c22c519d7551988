// Package metrics exports scheduler activity as Prometheus metrics. A
// Collector is installed as observer.Config.FlushObserver.
package metrics

import (
	"time"

	"github.com/delaneyj/reactor/observer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	Subsystem string

	ConstLabels prometheus.Labels

	// DurationBuckets are the flush duration histogram buckets.
	// Default: prometheus.DefBuckets
	DurationBuckets []float64

	// QueueBuckets are the queue size histogram buckets.
	QueueBuckets []float64

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithDurationBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.DurationBuckets = buckets
	}
}

func WithQueueBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.QueueBuckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:       "reactor",
		DurationBuckets: prometheus.DefBuckets,
		QueueBuckets:    prometheus.ExponentialBuckets(1, 4, 8),
		Registry:        prometheus.DefaultRegisterer,
	}
}

// Watcher kinds used as the "kind" label of watcher_runs_total.
const (
	KindRender = "render"
	KindUser   = "user"
	KindOther  = "other"
)

// Collector implements observer.FlushObserver.
type Collector struct {
	flushes       prometheus.Counter
	watcherRuns   *prometheus.CounterVec
	updateLoops   prometheus.Counter
	flushDuration prometheus.Histogram
	queueSize     prometheus.Histogram
}

var _ observer.FlushObserver = (*Collector)(nil)

// New registers the collector's metrics with the configured registry. It
// panics if they are already registered there, as promauto does.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: cfg.ConstLabels,
		}),
		watcherRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "watcher_runs_total",
			Help:        "Total number of watcher runs performed by the scheduler",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind"}),
		updateLoops: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "update_loops_total",
			Help:        "Total number of watchers suppressed for re-queuing themselves too often in one flush",
			ConstLabels: cfg.ConstLabels,
		}),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.DurationBuckets,
		}),
		queueSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_queue_size",
			Help:        "Number of watchers queued when a flush starts",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.QueueBuckets,
		}),
	}
}

func (c *Collector) FlushStarted(queued int) {
	c.flushes.Inc()
	c.queueSize.Observe(float64(queued))
}

func (c *Collector) WatcherRan(w *observer.Watcher) {
	c.watcherRuns.WithLabelValues(kindOf(w)).Inc()
}

func (c *Collector) LoopDetected(*observer.Watcher) {
	c.updateLoops.Inc()
}

func (c *Collector) FlushFinished(_ int, took time.Duration) {
	c.flushDuration.Observe(took.Seconds())
}

func kindOf(w *observer.Watcher) string {
	switch {
	case w.Scope() != nil && w.Scope().RenderWatcher() == w:
		return KindRender
	case w.User():
		return KindUser
	default:
		return KindOther
	}
}
