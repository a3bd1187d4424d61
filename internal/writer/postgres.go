package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS crypto_assets (
	position             INTEGER PRIMARY KEY,
	cycle_id             UUID NOT NULL,
	fetched_at           TIMESTAMPTZ NOT NULL,
	name                 TEXT NOT NULL,
	symbol               TEXT NOT NULL,
	price_usd            DOUBLE PRECISION NOT NULL,
	market_cap_usd       DOUBLE PRECISION NOT NULL,
	volume_24h_usd       DOUBLE PRECISION NOT NULL,
	price_change_24h_pct DOUBLE PRECISION
);
CREATE TABLE IF NOT EXISTS crypto_analysis (
	position INTEGER PRIMARY KEY,
	cycle_id UUID NOT NULL,
	metric   TEXT NOT NULL,
	value    TEXT NOT NULL
);`

const (
	postgresInsertAsset = `
		INSERT INTO crypto_assets (position, cycle_id, fetched_at, name, symbol, price_usd, market_cap_usd, volume_24h_usd, price_change_24h_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	postgresInsertMetric = `
		INSERT INTO crypto_analysis (position, cycle_id, metric, value)
		VALUES ($1, $2, $3, $4)`
)

// PostgresSink mirrors the latest snapshot into PostgreSQL.
type PostgresSink struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresSink creates the mirror tables if needed and returns the sink.
// The sink owns db and closes it on Close.
func NewPostgresSink(ctx context.Context, db *pgxpool.Pool, logger *slog.Logger) (*PostgresSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}
	return &PostgresSink{db: db, logger: logger}, nil
}

// Name returns the sink name.
func (s *PostgresSink) Name() string { return "postgres" }

// Persist replaces both mirror tables in one transaction.
func (s *PostgresSink) Persist(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM crypto_assets`); err != nil {
		return fmt.Errorf("clear crypto_assets: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM crypto_analysis`); err != nil {
		return fmt.Errorf("clear crypto_analysis: %w", err)
	}

	batch := &pgx.Batch{}
	assets := toAssetRows(snap)
	for _, r := range assets {
		batch.Queue(postgresInsertAsset,
			r.Position, snap.CycleID, r.FetchedAt,
			r.Record.Name, r.Record.Symbol,
			r.Record.PriceUSD, r.Record.MarketCapUSD, r.Record.Volume24hUSD,
			r.Record.PriceChange24hPct,
		)
	}
	metrics := toMetricRows(snap)
	for _, m := range metrics {
		batch.Queue(postgresInsertMetric, m.Position, snap.CycleID, m.Metric, m.Value)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("postgres mirror updated",
		"assets", len(assets),
		"metrics", len(metrics),
	)
	return nil
}

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	s.db.Close()
	return nil
}
