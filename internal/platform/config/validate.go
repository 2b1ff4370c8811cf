package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Database.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.requests_per_second must be >= 0, got %f",
			s.RateLimit.RequestsPerSecond))
	}
	if s.RateLimit.RequestsPerSecond > 0 && s.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("server.rate_limit.burst_size must be >= 1 when rate limiting is enabled, got %d",
			s.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	var errs []error

	switch d.Driver {
	case DriverPostgres:
		if d.DSN == "" {
			errs = append(errs, errors.New("database.dsn must not be empty when driver is postgres"))
		}
		if d.MaxConns < 1 {
			errs = append(errs, fmt.Errorf("database.max_conns must be >= 1, got %d", d.MaxConns))
		}
		if d.MinConns < 0 || d.MinConns > d.MaxConns {
			errs = append(errs, fmt.Errorf("database.min_conns must be between 0 and max_conns, got %d", d.MinConns))
		}
		if d.ConnectTimeout <= 0 {
			errs = append(errs, errors.New("database.connect_timeout must be positive"))
		}
	case DriverMemory:
		// No connection settings required.
	default:
		errs = append(errs, fmt.Errorf("database.driver must be one of: postgres, memory; got %q", d.Driver))
	}

	if d.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("database.circuit_breaker.max_failures must be >= 1, got %d",
			d.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty when telemetry is enabled"))
	}

	return errors.Join(errs...)
}
