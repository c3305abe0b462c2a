package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	leadMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_mutations_total",
			Help: "Total number of lead create, update and delete attempts",
		},
		[]string{"operation", "outcome"},
	)

	authEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of register, login and logout attempts",
		},
		[]string{"event", "outcome"},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RequestStarted marks a request as in flight; call the returned func when it ends
func RequestStarted() func() {
	activeRequests.Inc()
	return activeRequests.Dec
}

// ObserveRequest records one served request
func ObserveRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordLeadMutation counts a lead write by operation (create, update, delete)
func RecordLeadMutation(operation string, err error) {
	leadMutations.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordAuthEvent counts an access gate event (register, login, logout)
func RecordAuthEvent(event string, err error) {
	authEvents.WithLabelValues(event, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
