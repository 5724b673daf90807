// Package metrics exposes prometheus counters for the HTTP surface and the
// auth flows.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's prometheus metrics. One instance is created
// in main and shared via middleware.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	refresh  *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hippocampus_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hippocampus_token_refresh_total",
			Help: "Token refresh attempts by outcome",
		}, []string{"outcome"}),
	}

	c.registry.MustRegister(c.requests, c.refresh)
	return c
}

// RecordRequest counts one completed HTTP request.
func (c *Collector) RecordRequest(method, path string, status int) {
	c.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordRefresh counts one token refresh attempt. Outcome is one of
// "success", "rejected", "unavailable", "error".
func (c *Collector) RecordRefresh(outcome string) {
	c.refresh.WithLabelValues(outcome).Inc()
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
