package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationsTotal counts batch filter calculations
	CalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fossawork_calculations_total",
			Help: "Total number of filter calculation batches",
		},
	)

	// CalculationLatency measures batch calculation latency
	CalculationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fossawork_calculation_latency_seconds",
			Help:    "Filter calculation latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// WarningsTotal counts calculation warnings by kind
	WarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fossawork_calculation_warnings_total",
			Help: "Total number of calculation warnings",
		},
		[]string{"kind"},
	)

	// HTTPRequests counts API requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fossawork_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// HTTPLatency measures API request latency
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fossawork_http_request_latency_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"endpoint", "method", "status"},
	)

	// NotificationsTotal counts notification deliveries by channel and outcome
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fossawork_notifications_total",
			Help: "Total number of notification deliveries",
		},
		[]string{"channel", "status"},
	)
)
