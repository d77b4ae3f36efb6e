package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vivacrm/dashboard-api/internal/database"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the body of GET /readyz.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health is the liveness check used by load balancers and orchestrators to
// verify that the process is accepting connections.  It touches no
// dependency and always answers 200 {"status":"ok"}.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// ReadyHandler reports whether the service's dependencies are reachable.
type ReadyHandler struct {
	DB    *database.Provider
	Redis *redis.Client // nil when Redis is not configured
}

// Ready pings the database and, when configured, Redis.  Any failed check
// turns the response into a 503 so traffic is held back until it recovers.
func (h *ReadyHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK

	if err := h.DB.Ping(ctx); err != nil {
		c.Logger().Warnf("readyz: database: %v", err)
		resp.Checks["database"] = "error"
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["database"] = "ok"
	}

	switch {
	case h.Redis == nil:
		resp.Checks["redis"] = "disabled"
	case h.Redis.Ping(ctx).Err() != nil:
		resp.Checks["redis"] = "error"
		status = http.StatusServiceUnavailable
	default:
		resp.Checks["redis"] = "ok"
	}

	if status != http.StatusOK {
		resp.Status = "unavailable"
	}
	return c.JSON(status, resp)
}
