package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/vivacrm/dashboard-api/internal/config"
)

// Open builds the connection pool for the configured database. The startup
// ping only logs: an unreachable server must not keep the process from
// serving /health, and each request reports it through Provider.WithConn.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite is single-writer
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Printf("database: %s not reachable at startup, serving anyway: %v", driver, err)
	}
	return db, nil
}

// dataSource maps DB_DRIVER onto a registered database/sql driver name and DSN.
func dataSource(cfg config.DBConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case "", "mysql":
		auth := cfg.User
		if cfg.Pass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return "mysql", fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.Host, cfg.Port, cfg.Name), nil
	case "postgres", "postgresql", "pgx":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Pass),
			Host:     cfg.Host + ":" + cfg.Port,
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
		}
		if cfg.Pass == "" {
			u.User = url.User(cfg.User)
		}
		return "pgx", u.String(), nil
	case "sqlite", "sqlite3":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return "", "", fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
		return "sqlite", cfg.Path + "?_pragma=busy_timeout(5000)", nil
	}
	return "", "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}
