package perf

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for upstream API calls.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
)

// Metrics records request, upstream-call and session-store timings.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.HistogramVec
	upstream *prometheus.HistogramVec
	queries  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg (the default registerer when nil).
// PRE: the collectors are not already registered on reg
// POST: Returns metrics ready to observe
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hospitalcms",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of dashboard HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hospitalcms",
			Subsystem: "api",
			Name:      "call_duration_seconds",
			Help:      "Latency of backend API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hospitalcms",
			Subsystem: "session_store",
			Name:      "query_duration_seconds",
			Help:      "Latency of session store queries",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.upstream, m.queries)
	return m
}

// ObserveRequest records one dashboard request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, RouteLabel(path), strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveUpstream records one backend API call.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

// ObserveQuery records one session store query.
func (m *Metrics) ObserveQuery(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(op).Observe(d.Seconds())
}

// RouteLabel collapses numeric path segments so ids do not explode label cardinality.
// PRE: path starts with "/"
// POST: "/admin/doctors/42/delete" becomes "/admin/doctors/:id/delete"
func RouteLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseUint(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
