package config

import "time"

// TrackerConfig is the root configuration for the tracker.
type TrackerConfig struct {
	API       APIConfig       `yaml:"api"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Writer    WriterConfig    `yaml:"writer"`
	Database  DatabaseConfig  `yaml:"database"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Redis     RedisConfig     `yaml:"redis"`
	Status    StatusConfig    `yaml:"status"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig holds market-data API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"` // Optional demo key (x-cg-demo-api-key header)
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"` // 0 = no in-call retries
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	VsCurrency   string        `yaml:"vs_currency"`
	Order        string        `yaml:"order"`
	PerPage      int           `yaml:"per_page"`
	Page         int           `yaml:"page"`
}

// SchedulerConfig holds refresh loop settings.
type SchedulerConfig struct {
	Interval               time.Duration `yaml:"interval"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"` // < 0 disables the failure cap
	PauseOnCap             bool          `yaml:"pause_on_cap"`             // Skip cycles for breaker_cooldown once the cap trips
	BreakerCooldown        time.Duration `yaml:"breaker_cooldown"`
}

// AnalysisConfig holds analyzer settings.
type AnalysisConfig struct {
	TopN int `yaml:"top_n"`
}

// WriterConfig holds spreadsheet output settings.
type WriterConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds the optional PostgreSQL mirror sink.
type DatabaseConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Postgres       DBConfig      `yaml:"postgres"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // Total backoff budget at startup
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SQLiteConfig holds the optional SQLite mirror sink.
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RedisConfig holds the optional Redis mirror sink.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"` // 0 = keys never expire
}

// StatusConfig holds the status/metrics HTTP server settings.
type StatusConfig struct {
	Port        int    `yaml:"port"` // 0 disables the server
	MetricsPath string `yaml:"metrics_path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // Empty = stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}
