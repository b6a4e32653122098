// Package config loads console configuration from environment variables.
// The binaries call godotenv first, so a local .env file works too.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvAPIBase      = "AG_API_BASE"
	EnvPollInterval = "AG_POLL_INTERVAL"
	EnvSessionDB    = "AG_SESSION_DB"
	EnvMetricsAddr  = "AG_METRICS_ADDR"
	EnvStubPort     = "AG_STUB_PORT"
	EnvStubSecret   = "AG_STUB_SECRET"
)

// Config holds runtime configuration for the console and the stub backend.
type Config struct {
	// APIBase is the base URL of the AccessGuard backend.
	APIBase string

	// PollInterval is the audit-log poll period.
	PollInterval time.Duration

	// SessionDB is the path of the durable credential store.
	SessionDB string

	// MetricsAddr enables the Prometheus listener when non-empty.
	MetricsAddr string

	// StubPort and StubSecret configure the development backend.
	StubPort   int
	StubSecret string
}

// Load reads the configuration, falling back to local development defaults.
func Load() Config {
	return Config{
		APIBase:      envOrDefault(EnvAPIBase, "http://127.0.0.1:8080"),
		PollInterval: durationEnvOrDefault(EnvPollInterval, 2500*time.Millisecond),
		SessionDB:    envOrDefault(EnvSessionDB, "accessguard_session.db"),
		MetricsAddr:  strings.TrimSpace(os.Getenv(EnvMetricsAddr)),
		StubPort:     intEnvOrDefault(EnvStubPort, 8080),
		StubSecret:   envOrDefault(EnvStubSecret, "ACCESSGUARD_SECRET"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnvOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnvOrDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
