package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/config"
)

// Connect creates a single connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := ParsePoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// ParsePoolConfig builds a pgxpool config from cfg.
func ParsePoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	return poolCfg, nil
}

// NewConnectBackoff returns the retry policy used at startup.
func NewConnectBackoff(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = maxElapsed
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1
	return b
}

// ConnectWithRetry calls Connect until it succeeds, the backoff budget
// maxElapsed is spent, or ctx is done. Configuration errors are not retried.
func ConnectWithRetry(ctx context.Context, cfg config.DBConfig, maxElapsed time.Duration, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := ParsePoolConfig(cfg); err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool
	operation := func() error {
		p, err := Connect(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}

	b := backoff.WithContext(NewConnectBackoff(maxElapsed), ctx)
	err := backoff.RetryNotify(operation, b, func(err error, d time.Duration) {
		logger.Warn("database connect failed, retrying",
			"host", cfg.Host,
			"error", err,
			"retry_in", d,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}
