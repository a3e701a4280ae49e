package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterFilesParsed         *prometheus.CounterVec
	CounterFilesFailed         *prometheus.CounterVec
	CounterRowsIngested        *prometheus.CounterVec
	CounterRemoteDayFailures   *prometheus.CounterVec
	CounterFetchCache          *prometheus.CounterVec
	CounterIngestionRuns       *prometheus.CounterVec

	// gauges
	GaugeRequests          prometheus.Gauge
	GaugeLifeSignal        prometheus.Gauge
	GaugeIngestionsRunning prometheus.Gauge

	// histograms
	HistogramRequestDuration   *prometheus.HistogramVec
	HistogramIngestionDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitassist", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitassist", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(
			counterOpts("request", "The total number of incoming requests"),
			[]string{"method", "status"},
		),
		CounterHandleRequestPanic: factory.NewCounter(
			counterOpts("handle_request_panic", "The total number of serve request panics"),
		),
		CounterRateLimitedRequests: factory.NewCounter(
			counterOpts("rate_limited_requests", "The total number of rate limited requests"),
		),
		CounterFilesParsed: factory.NewCounterVec(
			counterOpts("files_parsed", "Export files parsed, per metric family"),
			[]string{"family"},
		),
		CounterFilesFailed: factory.NewCounterVec(
			counterOpts("files_failed", "Export files skipped or degraded to empty, per metric family"),
			[]string{"family"},
		),
		CounterRowsIngested: factory.NewCounterVec(
			counterOpts("rows_ingested", "Rows in the canonical tables produced, per metric family"),
			[]string{"family"},
		),
		CounterRemoteDayFailures: factory.NewCounterVec(
			counterOpts("remote_day_failures", "Remote per-day fetches that failed and were skipped"),
			[]string{"metric"},
		),
		CounterFetchCache: factory.NewCounterVec(
			counterOpts("fetch_cache", "Remote fetch cache lookups"),
			[]string{"layer", "result"},
		),
		CounterIngestionRuns: factory.NewCounterVec(
			counterOpts("ingestion_runs", "Background ingestion runs by source and outcome"),
			[]string{"source", "outcome"},
		),

		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		GaugeLifeSignal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "life_signal",
			Help:      "Shows whether the service is alive",
		}),
		GaugeIngestionsRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ingestions_running",
			Help:      "Background ingestion runs currently in flight",
		}),

		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		HistogramIngestionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ingestion_duration_seconds",
			Help:      "Duration of a whole ingestion run in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"source"}),
	}
}
