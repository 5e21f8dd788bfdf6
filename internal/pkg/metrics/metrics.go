package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infera_console_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "infera_console_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RoleSwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infera_console_role_switches_total",
			Help: "Total number of effective session role switches",
		},
		[]string{"from", "to"},
	)

	// outcome is "allowed" or "denied".
	CapabilityChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infera_console_capability_checks_total",
			Help: "Total number of capability checks",
		},
		[]string{"capability", "outcome"},
	)
)

// Outcome returns the CapabilityChecksTotal label for a check result.
func Outcome(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
