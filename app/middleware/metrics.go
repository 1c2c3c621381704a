package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Campaign dispatch results partitioned by channel and result
	campaignDispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_dispatches_total",
			Help: "Total campaign message dispatches by channel and result",
		},
		[]string{"channel", "result"},
	)

	// Outcome recordings partitioned by outcome value
	outcomesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outcomes_recorded_total",
			Help: "Total send entry outcomes recorded by outcome value",
		},
		[]string{"outcome"},
	)
)

// Metrics returns a Fiber middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordDispatch counts one campaign message dispatch attempt
func RecordDispatch(channel string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	campaignDispatchesTotal.With(prometheus.Labels{"channel": channel, "result": result}).Inc()
}

// RecordOutcome counts one recorded send entry outcome
func RecordOutcome(outcome string) {
	outcomesRecordedTotal.With(prometheus.Labels{"outcome": outcome}).Inc()
}
