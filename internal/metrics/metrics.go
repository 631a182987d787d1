// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AccountEvents counts account lifecycle steps: signup, login, confirm, reset_request,
	// reset, password_change.
	AccountEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_account_events_total",
		Help: "Account lifecycle events by type and outcome",
	}, []string{"event", "outcome"})

	// EmailsSent counts outgoing emails by template and result.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_emails_sent_total",
		Help: "Emails handed to the mail gateway",
	}, []string{"type", "result"})

	// RateLimited counts requests rejected by the auth rate limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"path"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome labels an event "ok" or "error"
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
