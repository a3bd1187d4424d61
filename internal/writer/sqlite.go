package writer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS crypto_assets (
		position             INTEGER PRIMARY KEY,
		cycle_id             TEXT NOT NULL,
		fetched_at           DATETIME NOT NULL,
		name                 TEXT NOT NULL,
		symbol               TEXT NOT NULL,
		price_usd            REAL NOT NULL,
		market_cap_usd       REAL NOT NULL,
		volume_24h_usd       REAL NOT NULL,
		price_change_24h_pct REAL
	);`,
	`CREATE TABLE IF NOT EXISTS crypto_analysis (
		position INTEGER PRIMARY KEY,
		cycle_id TEXT NOT NULL,
		metric   TEXT NOT NULL,
		value    TEXT NOT NULL
	);`,
}

// SQLiteSink mirrors the latest snapshot into a local SQLite file.
type SQLiteSink struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteSink opens (or creates) the database at dbPath.
func NewSQLiteSink(dbPath string, logger *slog.Logger) (*SQLiteSink, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &SQLiteSink{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) initSchema() error {
	for _, q := range sqliteSchema {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

// Name returns the sink name.
func (s *SQLiteSink) Name() string { return "sqlite" }

// Persist replaces both mirror tables in one transaction.
func (s *SQLiteSink) Persist(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM crypto_assets`); err != nil {
		return fmt.Errorf("clear crypto_assets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM crypto_analysis`); err != nil {
		return fmt.Errorf("clear crypto_analysis: %w", err)
	}

	for _, r := range toAssetRows(snap) {
		var change any
		if r.Record.PriceChange24hPct != nil {
			change = *r.Record.PriceChange24hPct
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO crypto_assets (position, cycle_id, fetched_at, name, symbol, price_usd, market_cap_usd, volume_24h_usd, price_change_24h_pct)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Position, r.CycleID, r.FetchedAt.Format(time.RFC3339Nano),
			r.Record.Name, r.Record.Symbol,
			r.Record.PriceUSD, r.Record.MarketCapUSD, r.Record.Volume24hUSD,
			change,
		)
		if err != nil {
			return fmt.Errorf("insert asset %d: %w", r.Position, err)
		}
	}

	for _, m := range toMetricRows(snap) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO crypto_analysis (position, cycle_id, metric, value)
			VALUES (?, ?, ?, ?)`,
			m.Position, m.CycleID, m.Metric, m.Value,
		)
		if err != nil {
			return fmt.Errorf("insert metric %d: %w", m.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
