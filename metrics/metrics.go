// Package metrics exposes Prometheus collectors for the URL shortener service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultCreated    = "created"
	ResultExhausted  = "exhausted"
	ResultStoreError = "store_error"
	ResultInvalid    = "invalid"
	ResultFound      = "found"
	ResultNotFound   = "not_found"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	creates      *prometheus.CounterVec
	collisions   prometheus.Counter
	resolves     *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		creates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_create_total",
			Help: "Create operations by result",
		}, []string{"result"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shortener_collisions_total",
			Help: "Generated short codes that were already taken",
		}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_resolve_total",
			Help: "Resolve operations by result",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shortener_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.creates, m.collisions, m.resolves, m.httpRequests, m.httpDuration)
	return m
}

// ObserveCreate counts a finished create operation.
func (m *Metrics) ObserveCreate(result string) {
	if m == nil {
		return
	}
	m.creates.WithLabelValues(result).Inc()
}

// ObserveCollision counts one rejected conditional insert.
func (m *Metrics) ObserveCollision() {
	if m == nil {
		return
	}
	m.collisions.Inc()
}

// ObserveResolve counts a finished resolve operation.
func (m *Metrics) ObserveResolve(result string) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
