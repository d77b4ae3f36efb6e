// Package app assembles the HTTP server from configuration and owns the
// lifecycle of its shared resources.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/vivacrm/dashboard-api/internal/config"
	"github.com/vivacrm/dashboard-api/internal/database"
	"github.com/vivacrm/dashboard-api/internal/handler"
	"github.com/vivacrm/dashboard-api/internal/middleware"
	"github.com/vivacrm/dashboard-api/internal/queue"
	"github.com/vivacrm/dashboard-api/internal/repository"
	"github.com/vivacrm/dashboard-api/internal/router"
	"github.com/vivacrm/dashboard-api/internal/service"
)

// Deps are the externally owned resources the server runs on.  Redis may be nil.
type Deps struct {
	DB    *sql.DB
	Redis *redis.Client
}

// NewEcho builds the Echo instance with middleware and every route.
func NewEcho(rl config.RateLimitConfig, ev config.EventsConfig, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	metrics := middleware.NewMetrics()
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %s ip=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP, v.Error)
				return nil
			}
			log.Printf("%s %s %d %s ip=%s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
			return nil
		},
	}))
	e.Use(metrics.Middleware())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(rl, deps.Redis, func(c echo.Context) bool {
		return router.IsInfraPath(c.Path())
	}))

	provider := database.NewProvider(deps.DB)
	var events service.EventPublisher
	if ev.Enabled {
		events = service.NewPublisher(ev.URL, ev.Queue)
	}

	router.RegisterRoutes(e, &handler.ReadyHandler{DB: provider, Redis: deps.Redis}, metrics)
	router.RegisterDashboard(e, handler.NewDashboardHandler(provider, repository.NewDashboardRepo(), events))
	return e
}

// Run opens every dependency, serves HTTP on cfg.Port and shuts down
// gracefully on SIGINT/SIGTERM.
func Run(cfg config.Config) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
		log.Println("database connection closed")
	}()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	ev := config.LoadEventsConfig()
	e := NewEcho(config.LoadRateLimitConfig(), ev, Deps{DB: db, Redis: rdb})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ev.Consumer {
		go func() {
			if err := queue.StartDashboardConsumer(ctx, ev.URL, ev.Queue, ev.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("dashboard-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DB.Driver)

	serverErrors := make(chan error, 1)
	go func() { serverErrors <- e.Start(addr) }()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("starting graceful shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("could not gracefully shut down the server: %v", err)
		return e.Close()
	}
	log.Println("server gracefully stopped")
	return nil
}
