package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vivacrm/dashboard-api/internal/database"
	"github.com/vivacrm/dashboard-api/internal/model"
	"github.com/vivacrm/dashboard-api/internal/queue"
	"github.com/vivacrm/dashboard-api/internal/repository"
	"github.com/vivacrm/dashboard-api/internal/service"
)

// DashboardHandler serves GET /dashboard.
type DashboardHandler struct {
	DB     *database.Provider
	Repo   *repository.DashboardRepo
	Events service.EventPublisher // nil disables access events
}

func NewDashboardHandler(db *database.Provider, repo *repository.DashboardRepo, events service.EventPublisher) *DashboardHandler {
	if db == nil || repo == nil {
		panic("nil dependency passed to NewDashboardHandler")
	}
	return &DashboardHandler{DB: db, Repo: repo, Events: events}
}

// GetDashboard borrows one connection for the duration of the request, runs
// the dashboard query on it and returns {"data": [row, ...]}.  Acquisition
// and query failures both surface as a plain 500; the cause is attached as
// the internal error so Echo logs it without leaking it to the client.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	var rows []model.Row
	err := h.DB.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		rows, err = h.Repo.Fetch(ctx, conn)
		return err
	})
	if err != nil {
		return echo.ErrInternalServerError.WithInternal(err)
	}

	h.publishViewed(c, len(rows), time.Since(start))
	return c.JSON(http.StatusOK, model.Dashboard{Data: rows})
}

// publishViewed fires the access event in the background.  The request never
// waits for the broker and never fails because of it.
func (h *DashboardHandler) publishViewed(c echo.Context, n int, took time.Duration) {
	if h.Events == nil {
		return
	}
	ev := queue.DashboardViewedEvent{
		RequestID:  c.Response().Header().Get(echo.HeaderXRequestID),
		RemoteIP:   c.RealIP(),
		RowCount:   n,
		DurationMs: took.Milliseconds(),
		ViewedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	logger := c.Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Events.PublishDashboardViewed(ctx, ev); err != nil {
			logger.Warnf("dashboard: access event dropped: %v", err)
		}
	}()
}
