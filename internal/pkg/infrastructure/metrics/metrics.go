package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Alert pipeline
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_raised_total",
			Help: "Total number of alerts persisted after passing the cooldown gate",
		},
		[]string{"alert_type", "severity"},
	)

	AlertsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_suppressed_total",
			Help: "Total number of threshold breaches suppressed by the cooldown gate",
		},
		[]string{"alert_type"},
	)

	AlertStoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machine_alerts_store_failures_total",
			Help: "Total number of alerts lost because the alert store was unavailable",
		},
	)

	// Notifications
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_notifications_total",
			Help: "Notification delivery attempts per transport",
		},
		[]string{"transport", "result"}, // result: delivered, failed
	)

	DispatchQueueDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machine_alerts_dispatch_queue_dropped_total",
			Help: "Alerts not dispatched because the notification queue was full",
		},
	)

	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "machine_alerts_dispatch_queue_depth",
			Help: "Alerts waiting for notification dispatch",
		},
	)

	// Monitor
	TicksSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machine_alerts_monitor_ticks_skipped_total",
			Help: "Machine evaluations skipped because the previous one was still running",
		},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "machine_alerts_monitor_tick_duration_seconds",
			Help:    "Time spent evaluating all machines in one tick",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	SamplesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_samples_ingested_total",
			Help: "Metric samples received per source",
		},
		[]string{"source"}, // source: http, kafka, opcua, simulator
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_panics_recovered_total",
			Help: "Panics recovered per component",
		},
		[]string{"component"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machine_alerts_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "machine_alerts_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	CooldownEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "machine_alerts_cooldown_entries",
			Help: "Number of (machine, alert type) pairs tracked by the cooldown gate",
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
