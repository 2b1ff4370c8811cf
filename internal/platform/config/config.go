// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Database  DatabaseConfig  `koanf:"database"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `koanf:"host"`
	Port         int             `koanf:"port"`
	ReadTimeout  time.Duration   `koanf:"read_timeout"`
	WriteTimeout time.Duration   `koanf:"write_timeout"`
	IdleTimeout  time.Duration   `koanf:"idle_timeout"`
	RateLimit    RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig holds inbound request rate limiting settings.
// A RequestsPerSecond of zero disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	Driver          string               `koanf:"driver"`
	DSN             string               `koanf:"dsn"`
	Password        string               `koanf:"password"` // overrides any password in DSN
	MaxConns        int                  `koanf:"max_conns"`
	MinConns        int                  `koanf:"min_conns"`
	MaxConnIdleTime time.Duration        `koanf:"max_conn_idle_time"`
	MaxConnLifetime time.Duration        `koanf:"max_conn_lifetime"`
	ConnectTimeout  time.Duration        `koanf:"connect_timeout"`
	MigrateOnStart  bool                 `koanf:"migrate_on_start"`
	CircuitBreaker  CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig holds circuit breaker settings for store calls.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
