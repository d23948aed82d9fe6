// Package config loads service configuration from environment variables,
// applies defaults, and validates everything at startup so misconfiguration
// fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Rate     RateLimitConfig
	Submit   SubmitConfig
	Review   ReviewConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Export   ExportConfig
	Form     FormConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout stays 0 so the event stream is not cut off.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout applies to every route except the event stream.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`

	// EventHeartbeat is the keep-alive interval on /hr/events.
	EventHeartbeat time.Duration `env:"SERVER_EVENT_HEARTBEAT" default:"25s"`
}

// DatabaseConfig holds PostgreSQL settings. An empty URL runs the service
// on the in-memory store.
type DatabaseConfig struct {
	URL         string `env:"DATABASE_URL" envAlt:"DB_URL"`
	MaxConns    int    `env:"DB_MAX_CONNS" default:"10"`
	MinConns    int    `env:"DB_MIN_CONNS" default:"1"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" default:"true"`
}

// Feed drivers.
const (
	FeedPostgres = "postgres"
	FeedRedis    = "redis"
	FeedMemory   = "memory"
)

// FeedConfig selects where change notifications come from.
type FeedConfig struct {
	// Driver is postgres, redis or memory. Empty picks postgres when a
	// database is configured and memory otherwise.
	Driver       string `env:"FEED_DRIVER"`
	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL" default:"training:registrations:changed"`
}

// RateLimitConfig limits submissions per client IP.
type RateLimitConfig struct {
	Enabled         bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	SubmitPerMinute int  `env:"RATE_LIMIT_SUBMIT_PER_MINUTE" default:"10"`
}

// SubmitConfig bounds concurrent store writes from the form.
type SubmitConfig struct {
	MaxConcurrent int           `env:"SUBMIT_MAX_CONCURRENT" default:"8"`
	MaxWait       time.Duration `env:"SUBMIT_MAX_WAIT" default:"10s"`
}

// ReviewConfig tunes the HR review list.
type ReviewConfig struct {
	// ResyncInterval forces a full reload even without notifications.
	// 0 disables it.
	ResyncInterval time.Duration `env:"REVIEW_RESYNC_INTERVAL" default:"5m"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
	EnableCSP      bool     `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ExportConfig controls the CSV export.
type ExportConfig struct {
	// Locale is a BCP 47 tag: en or pt-BR. It also drives sort collation.
	Locale     string `env:"EXPORT_LOCALE" default:"en"`
	Timezone   string `env:"EXPORT_TIMEZONE" default:"UTC"`
	FilePrefix string `env:"EXPORT_FILE_PREFIX" default:"training-registrations-"`
}

// FormConfig points at an optional catalog file replacing the embedded one.
type FormConfig struct {
	CatalogPath string `env:"FORM_CATALOG_PATH"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// FeedDriver resolves the effective feed driver.
func (c *Config) FeedDriver() string {
	if c.Feed.Driver != "" {
		return c.Feed.Driver
	}
	if c.Database.URL != "" {
		return FeedPostgres
	}
	return FeedMemory
}

// UsesDatabase reports whether registrations are stored in PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}
