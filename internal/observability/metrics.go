package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_map"

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	PipelineRunning prometheus.Gauge
	PassDuration    prometheus.Histogram
	FetchErrors     prometheus.Counter
	LastSuccess     prometheus.Gauge // unix seconds of the last successful pass

	// Feed content metrics.
	EventsOnMap     prometheus.Gauge
	FeaturesSkipped prometheus.Counter
	NegativeRadius  prometheus.Counter

	// Feed client metrics.
	FeedRequests *prometheus.CounterVec // labels: outcome={success,error}
	FeedDuration prometheus.Histogram
	FeedCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Sink metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.PipelineRunning,
		m.PassDuration,
		m.FetchErrors,
		m.LastSuccess,
		m.EventsOnMap,
		m.FeaturesSkipped,
		m.NegativeRadius,
		m.FeedRequests,
		m.FeedDuration,
		m.FeedCache,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete fetch-style-publish pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Passes that failed to fetch or parse the feed.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful pass.",
		}),
		EventsOnMap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_on_map",
			Help:      "Number of earthquakes in the current snapshot.",
		}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_skipped_total",
			Help:      "Feed features rejected as malformed.",
		}),
		NegativeRadius: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radius_clamped_total",
			Help:      "Events with a non-positive radius, drawn at the minimum radius.",
		}),
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Feed HTTP requests by outcome.",
		}, []string{"outcome"}),
		FeedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_request_duration_seconds",
			Help:      "Feed HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_total",
			Help:      "Feed cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Styled events written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Snapshot loads that failed.",
		}),
	}
}
