package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/projects-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records request counts and latencies into the
// server's Prometheus registry.
type MetricsMiddleware struct {
	server   *server.Server
	enabled  bool
	path     string
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware registers the HTTP collectors on s.Metrics.
func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	m := &MetricsMiddleware{
		server:  s,
		enabled: s.Config.Observability.Metrics.Enabled,
		path:    s.Config.Observability.Metrics.Path,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if m.enabled {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := s.Metrics.Register(c); err != nil {
				s.Logger.Warn().Err(err).Msg("failed to register http metrics")
			}
		}
	}

	return m
}

// Enabled reports whether metrics are collected and served.
func (m *MetricsMiddleware) Enabled() bool {
	return m.enabled
}

// Path is the route the registry is served on.
func (m *MetricsMiddleware) Path() string {
	return m.path
}

// Collect observes every request. Route is the Echo path template so
// project ids do not explode label cardinality.
func (m *MetricsMiddleware) Collect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !m.enabled {
			return next
		}

		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			method := c.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(ResponseStatus(c, err))).Inc()
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsMiddleware) Handler() http.Handler {
	return promhttp.HandlerFor(m.server.Metrics, promhttp.HandlerOpts{})
}
