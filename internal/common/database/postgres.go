// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cpu-listings/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the pooled connection the listing queries read from.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool. It does not dial; call Ping to verify.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return NewPostgresFromDB(db, cfg), nil
}

// NewPostgresFromDB applies pool limits to an already opened handle.
func NewPostgresFromDB(db *sql.DB, cfg config.PostgresConfig) *PostgresClient {
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PostgresClient{DB: db}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// HealthCheck pings with its own deadline so a stuck pool cannot hang a probe.
func (c *PostgresClient) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres health check failed: %w", err)
	}
	return nil
}

// PoolStats returns a log-friendly snapshot of the pool.
func (c *PostgresClient) PoolStats() map[string]interface{} {
	s := c.DB.Stats()
	return map[string]interface{}{
		"openConnections": s.OpenConnections,
		"inUse":           s.InUse,
		"idle":            s.Idle,
		"waitCount":       s.WaitCount,
		"waitDuration":    s.WaitDuration.String(),
	}
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
