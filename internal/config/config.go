package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Helius indexing API configuration
	Helius HeliusConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// PNL engine configuration
	Pnl PnlConfig

	// Holdings monitor configuration
	Monitor MonitorConfig

	// Logging configuration
	Log LogConfig
}

// HeliusConfig holds settings for the Helius enhanced-transactions API
type HeliusConfig struct {
	BaseURL        string        `envconfig:"HELIUS_BASE_URL" default:"https://api.helius.xyz"`
	APIKey         string        `envconfig:"HELIUS_API_KEY" default:""`
	RequestTimeout time.Duration `envconfig:"HELIUS_REQUEST_TIMEOUT" default:"15s"`
	MaxRetries     int           `envconfig:"HELIUS_MAX_RETRIES" default:"2"`
	RetryDelay     time.Duration `envconfig:"HELIUS_RETRY_DELAY" default:"1s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"pnl"`
	Password        string        `envconfig:"DB_PASSWORD" default:"pnl"`
	Name            string        `envconfig:"DB_NAME" default:"wallet_pnl"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"100"`
	CacheTTL        time.Duration `envconfig:"API_CACHE_TTL" default:"2m"`
}

// PnlConfig holds PNL engine settings
type PnlConfig struct {
	// DefaultWindowDays is the lookback window used when a request does not
	// specify one.
	DefaultWindowDays int `envconfig:"PNL_DEFAULT_WINDOW_DAYS" default:"7"`

	// MaxWindowDays caps the lookback window a caller may request.
	MaxWindowDays int `envconfig:"PNL_MAX_WINDOW_DAYS" default:"90"`

	// MinHistoryDays is the floor for the per-token transaction fetch window.
	// The fetch window is max(windowDays*3, MinHistoryDays) so the window
	// clips as little earlier buy history as possible.
	MinHistoryDays int `envconfig:"PNL_MIN_HISTORY_DAYS" default:"45"`

	// MaxConcurrentMints bounds in-flight per-mint computations for one wallet.
	MaxConcurrentMints int `envconfig:"PNL_MAX_CONCURRENT_MINTS" default:"8"`

	// MaxConcurrentWallets bounds in-flight wallet computations for the
	// all-wallets report.
	MaxConcurrentWallets int `envconfig:"PNL_MAX_CONCURRENT_WALLETS" default:"4"`
}

// MonitorConfig holds holdings-monitor settings
type MonitorConfig struct {
	MetricsPort  int           `envconfig:"MONITOR_METRICS_PORT" default:"8080"`
	PollInterval time.Duration `envconfig:"MONITOR_POLL_INTERVAL" default:"60s"`
	WorkerCount  int           `envconfig:"MONITOR_WORKER_COUNT" default:"4"`

	// LookbackDays is how far the first poll for a wallet reaches back when
	// no cursor exists yet.
	LookbackDays int `envconfig:"MONITOR_LOOKBACK_DAYS" default:"1"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
