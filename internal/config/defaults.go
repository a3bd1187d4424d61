package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL                = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout             = 30 * time.Second
	DefaultRetryBackoff           = 1 * time.Second
	DefaultVsCurrency             = "usd"
	DefaultOrder                  = "market_cap_desc"
	DefaultPerPage                = 50
	DefaultPage                   = 1
	DefaultInterval               = 300 * time.Second
	DefaultMaxConsecutiveFailures = 5
	DefaultBreakerCooldown        = 15 * time.Minute
	DefaultTopN                   = 5
	DefaultOutputPath             = "Crypto_Live_Data.xlsx"
	DefaultDBPort                 = 5432
	DefaultDBSSLMode              = "prefer"
	DefaultMaxConns               = 4
	DefaultMinConns               = 1
	DefaultConnectTimeout         = 2 * time.Minute
	DefaultSQLitePath             = "crypto_live.db"
	DefaultRedisAddr              = "localhost:6379"
	DefaultRedisKeyPrefix         = "cryptotracker"
	DefaultMetricsPath            = "/metrics"
	DefaultLogLevel               = "info"
	DefaultLogMaxSizeMB           = 100
	DefaultLogMaxBackups          = 5
	DefaultLogMaxAgeDays          = 7
)

// Default returns a configuration with every default applied.
func Default() *TrackerConfig {
	cfg := &TrackerConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *TrackerConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.VsCurrency == "" {
		c.API.VsCurrency = DefaultVsCurrency
	}
	if c.API.Order == "" {
		c.API.Order = DefaultOrder
	}
	if c.API.PerPage == 0 {
		c.API.PerPage = DefaultPerPage
	}
	if c.API.Page == 0 {
		c.API.Page = DefaultPage
	}

	// Scheduler defaults
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = DefaultInterval
	}
	if c.Scheduler.MaxConsecutiveFailures == 0 {
		c.Scheduler.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if c.Scheduler.BreakerCooldown == 0 {
		c.Scheduler.BreakerCooldown = DefaultBreakerCooldown
	}

	if c.Analysis.TopN == 0 {
		c.Analysis.TopN = DefaultTopN
	}

	if c.Writer.Path == "" {
		c.Writer.Path = DefaultOutputPath
	}

	// Mirror sink defaults
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = DefaultSQLitePath
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if c.Status.MetricsPath == "" {
		c.Status.MetricsPath = DefaultMetricsPath
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
