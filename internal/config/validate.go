package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *TrackerConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.PerPage < 1 || c.API.PerPage > 250 {
		return fmt.Errorf("api.per_page must be between 1 and 250, got %d", c.API.PerPage)
	}
	if c.API.Page < 1 {
		return errors.New("api.page must be >= 1")
	}

	if c.Scheduler.Interval <= 0 {
		return errors.New("scheduler.interval must be > 0")
	}
	if c.Scheduler.BreakerCooldown <= 0 {
		return errors.New("scheduler.breaker_cooldown must be > 0")
	}

	if c.Analysis.TopN < 1 {
		return errors.New("analysis.top_n must be >= 1")
	}

	if c.Writer.Path == "" {
		return errors.New("writer.path is required")
	}
	if ext := strings.ToLower(filepath.Ext(c.Writer.Path)); ext != ".xlsx" {
		return fmt.Errorf("writer.path must end in .xlsx, got %q", c.Writer.Path)
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}
	if c.SQLite.Enabled && c.SQLite.Path == "" {
		return errors.New("sqlite.path is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}

	if c.Status.Port < 0 || c.Status.Port > 65535 {
		return fmt.Errorf("status.port must be between 0 and 65535, got %d", c.Status.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
