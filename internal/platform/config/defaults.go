package config

const (
	defaultServerPort = 8080

	defaultDatabaseMaxConns = 10
	defaultDatabaseMinConns = 2

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":                           "0.0.0.0",
		"server.port":                           defaultServerPort,
		"server.read_timeout":                   "5s",
		"server.write_timeout":                  "10s",
		"server.idle_timeout":                   "120s",
		"server.rate_limit.requests_per_second": 0,
		"server.rate_limit.burst_size":          0,

		"log.level":  "info",
		"log.format": "json",

		"database.driver":                          DriverPostgres,
		"database.dsn":                             "",
		"database.password":                        "",
		"database.max_conns":                       defaultDatabaseMaxConns,
		"database.min_conns":                       defaultDatabaseMinConns,
		"database.max_conn_idle_time":              "5m",
		"database.max_conn_lifetime":               "30m",
		"database.connect_timeout":                 "3s",
		"database.migrate_on_start":                true,
		"database.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"database.circuit_breaker.timeout":         "30s",
		"database.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "todo-service",
	}
}
