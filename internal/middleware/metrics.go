package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the per-route request counters.
type Metrics struct {
	Registry          *prometheus.Registry
	HttpRequestTotal  *prometheus.CounterVec
	HttpRequestErrors *prometheus.CounterVec
}

// NewMetrics registers the counters together with the Go and process
// collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HttpRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_http_request_total",
			Help: "Total number of requests processed by the API",
		}, []string{"path", "status"}),
		HttpRequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_http_request_error_total",
			Help: "Total number of errors returned by the API",
		}, []string{"path", "status"}),
	}
	m.Registry.MustRegister(
		m.HttpRequestTotal,
		m.HttpRequestErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware counts every request by route template and final status.
// Errors returned by handlers are resolved through Echo's error handler
// first so the recorded status is the one the client sees; the error is
// still returned so outer middleware can log it.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			if c.Response().Status < 400 {
				m.HttpRequestTotal.WithLabelValues(path, status).Inc()
			} else {
				m.HttpRequestErrors.WithLabelValues(path, status).Inc()
			}
			return err
		}
	}
}
