package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Provider hands out request-scoped database handles from a shared pool.
type Provider struct {
	db *sql.DB
}

// NewProvider wraps an open pool. The pool stays owned by the caller.
func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// WithConn checks out one connection, verifies it, and passes it to fn.
// The connection is returned to the pool when fn returns or panics.
// Acquisition failures are reported as ErrDependencyUnavailable; errors
// from fn are returned unchanged.
func (p *Provider) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("%w: no database configured", ErrDependencyUnavailable)
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return fn(conn)
}

// Ping checks the pool itself; used by the readiness check.
func (p *Provider) Ping(ctx context.Context) error {
	if p == nil || p.db == nil {
		return ErrDependencyUnavailable
	}
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return nil
}
