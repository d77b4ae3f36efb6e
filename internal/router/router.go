package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/vivacrm/dashboard-api/internal/handler"    // health, readiness and dashboard handlers
	"github.com/vivacrm/dashboard-api/internal/middleware" // request metrics
)

// Health, readiness and scrape paths.  They are exempt from rate limiting.
const (
	HealthPath  = "/health"
	ReadyPath   = "/readyz"
	MetricsPath = "/metrics"
)

// RegisterRoutes registers the health, readiness and metrics endpoints.  None of them
// require a database handle except the readiness check.
func RegisterRoutes(e *echo.Echo, r *handler.ReadyHandler, m *middleware.Metrics) {
	e.GET(HealthPath, handler.Health)
	e.GET(ReadyPath, r.Ready)
	e.GET(MetricsPath, m.Handler())
}

// RegisterDashboard registers the dashboard endpoint.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler) {
	e.GET("/dashboard", d.GetDashboard)
}

// IsInfraPath reports whether path belongs to infrastructure rather than clients.
func IsInfraPath(path string) bool {
	switch path {
	case HealthPath, ReadyPath, MetricsPath:
		return true
	}
	return false
}
