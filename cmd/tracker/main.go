package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/api"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/config"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/database"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/logging"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/metrics"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/scheduler"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/server"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/version"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/tracker.yaml", "path to config file (optional)")
	envPath := flag.String("env", ".env", "path to .env file (optional)")
	flag.Parse()

	if err := run(*configPath, *envPath); err != nil {
		slog.Error("tracker failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string) error {
	if err := config.LoadEnvFiles(envPath); err != nil {
		return err
	}

	cfg, found, err := config.LoadOptional(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting tracker",
		"version", version.String(),
		"config", configPath,
		"config_found", found,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sink, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close sinks", "error", err)
		}
	}()

	logger.Info("sinks ready", "sinks", sink.Sinks(), "path", cfg.Writer.Path)

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	m := metrics.New()
	sched := scheduler.New(scheduler.ConfigFrom(cfg), apiClient, sink, logger, scheduler.WithMetrics(m))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if cfg.Status.Port > 0 {
		srv := server.New(cfg.Status.Port, cfg.Status.MetricsPath, sched, m.Registry(), logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("tracker stopped")
	return nil
}

// buildSinks creates the spreadsheet writer and every enabled mirror.
func buildSinks(ctx context.Context, cfg *config.TrackerConfig, logger *slog.Logger) (*writer.Multi, error) {
	sinks := []writer.Sink{writer.NewXLSXWriter(cfg.Writer.Path, logger)}

	closeAll := func() {
		for _, s := range sinks {
			s.Close()
		}
	}

	if cfg.Database.Enabled {
		pg := cfg.Database.Postgres
		logger.Info("connecting to database",
			"host", pg.Host,
			"port", pg.Port,
			"database", pg.Name,
		)
		pool, err := database.ConnectWithRetry(ctx, pg, cfg.Database.ConnectTimeout, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		s, err := writer.NewPostgresSink(ctx, pool, logger)
		if err != nil {
			pool.Close()
			closeAll()
			return nil, err
		}
		sinks = append(sinks, s)
		logger.Info("database connected")
	}

	if cfg.SQLite.Enabled {
		s, err := writer.NewSQLiteSink(cfg.SQLite.Path, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if cfg.Redis.Enabled {
		s, err := writer.NewRedisSink(ctx, cfg.Redis, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, s)
	}

	return writer.NewMulti(logger, sinks...), nil
}
