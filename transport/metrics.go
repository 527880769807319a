package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for storage requests.
// A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// requestsTotal counts completed round trips by method and status code.
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "selcdn",
				Subsystem: "transport",
				Name:      "requests_total",
				Help:      "Total number of completed storage requests",
			},
			[]string{"method", "code"},
		),

		// failuresTotal counts round trips that failed before a status was received.
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "selcdn",
				Subsystem: "transport",
				Name:      "failures_total",
				Help:      "Total number of storage requests that failed at the transport level",
			},
			[]string{"method"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "selcdn",
				Subsystem: "transport",
				Name:      "request_duration_seconds",
				Help:      "Latency of completed storage requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.failuresTotal, m.requestDuration)
	}

	return m
}

func (m *Metrics) observe(method Method, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(string(method), strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(string(method)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure(method Method) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(string(method)).Inc()
}
