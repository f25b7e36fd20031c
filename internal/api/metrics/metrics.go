// Package metrics defines and registers all custom Prometheus metrics for the
// LogiPro client gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default registry through promauto when
// the package is imported.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const namespace = "logipro"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - app: admin, customer or driver
//   - state: the state entered (ANONYMOUS, AUTHENTICATING, AUTHENTICATED)
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by state entered.",
	},
	[]string{"app", "state"},
)

// SessionSignInErrorsTotal counts rejected sign-ins.
// Label:
//   - code: the identity provider code, or "exchange_failed"
var SessionSignInErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_sign_in_errors_total",
		Help:      "Total number of failed sign-in attempts, by cause.",
	},
	[]string{"code"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the LogiPro REST backend.
// Labels:
//   - route: the logical endpoint (e.g. "users_me", "driver_jobs")
//   - method: HTTP method
//   - status: response status code, or "error" on transport failure
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

// ── Fetch cache metrics ───────────────────────────────────────────────────────

// FetchCacheLookupsTotal counts cache lookups.
// Label:
//   - result: "hit" or "miss"
var FetchCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_cache_lookups_total",
		Help:      "Total number of fetch cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// QuotesTotal counts quotes served.
// Labels:
//   - service_type: the requested service
//   - source: "server" or "estimate" when the calculator was unavailable
var QuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Total number of quotes served, by service type and price source.",
	},
	[]string{"service_type", "source"},
)

// BookingsSubmittedTotal counts bookings accepted by the backend.
var BookingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_submitted_total",
		Help:      "Total number of bookings submitted, by service type.",
	},
	[]string{"service_type"},
)

// DriverStatusUpdatesTotal counts job status changes made by drivers.
var DriverStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "driver_status_updates_total",
		Help:      "Total number of driver job status updates, by new status.",
	},
	[]string{"status"},
)

// ObserveSession returns a session listener that feeds SessionTransitionsTotal.
func ObserveSession(app string) func(domain.Snapshot) {
	return func(s domain.Snapshot) {
		SessionTransitionsTotal.WithLabelValues(app, string(s.State)).Inc()
	}
}

// ObserveBackend matches the backend client's observe hook.
func ObserveBackend(route, method string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	BackendRequestDuration.WithLabelValues(route, method, code).Observe(elapsed.Seconds())
}

// ObserveFetch matches the fetcher's lookup hook.
func ObserveFetch(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	FetchCacheLookupsTotal.WithLabelValues(result).Inc()
}
