// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheHitsTotal      *prometheus.CounterVec
	CacheMissesTotal    *prometheus.CounterVec
	BookingTransitions  *prometheus.CounterVec
}

// NewRegistry builds a private registry so tests can create as many as they need.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of response cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of response cache misses",
			},
			[]string{"cache"},
		),
		BookingTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_status_transitions_total",
				Help: "Committed booking status transitions by target status",
			},
			[]string{"status"},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
		r.CacheHitsTotal,
		r.CacheMissesTotal,
		r.BookingTransitions,
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// GinMiddleware records count and latency per route template.
func (r *Registry) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func (r *Registry) TrackCacheHit(cache string) {
	r.CacheHitsTotal.WithLabelValues(cache).Inc()
}

func (r *Registry) TrackCacheMiss(cache string) {
	r.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func (r *Registry) BookingTransitioned(status string) {
	r.BookingTransitions.WithLabelValues(status).Inc()
}
