// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of Collector used outside the HTTP layer.
type Recorder interface {
	RecordNotification(kind string)
	RecordEmailSent()
	RecordEmailFailed(stage string)
	RecordRealtimeEvent(delivered bool)
}

type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	emailsSent    prometheus.Counter
	emailsFailed  *prometheus.CounterVec
	realtime      *prometheus.CounterVec
}

// NewCollector registers every collector on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerhub_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careerhub_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerhub_notifications_total",
			Help: "Persisted notifications by type.",
		}, []string{"type"}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careerhub_emails_sent_total",
			Help: "Emails handed to the SMTP server.",
		}),
		emailsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerhub_emails_failed_total",
			Help: "Emails that failed, by stage (enqueue or send).",
		}, []string{"stage"}),
		realtime: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careerhub_realtime_events_total",
			Help: "Real-time events by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.notifications,
		c.emailsSent,
		c.emailsFailed,
		c.realtime,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordNotification(kind string) {
	c.notifications.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordEmailSent() {
	c.emailsSent.Inc()
}

func (c *Collector) RecordEmailFailed(stage string) {
	c.emailsFailed.WithLabelValues(stage).Inc()
}

func (c *Collector) RecordRealtimeEvent(delivered bool) {
	outcome := "dropped"
	if delivered {
		outcome = "delivered"
	}
	c.realtime.WithLabelValues(outcome).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where no registry is wired, mostly in tests.
type Nop struct{}

func (Nop) RecordNotification(string) {}
func (Nop) RecordEmailSent()          {}
func (Nop) RecordEmailFailed(string)  {}
func (Nop) RecordRealtimeEvent(bool)  {}
