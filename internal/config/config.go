package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported answer sources.
const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port          string
	DataSource    string
	DataPath      string
	DatabaseURL   string
	DBMaxConns    int32
	LabelsPath    string
	LogLevel      string
	RateLimitAPI  RateLimitConfig
	SourceTimeout time.Duration
	CORSOrigins   []string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DataSource:    strings.ToLower(getEnv("DATA_SOURCE", DataSourceFile)),
		DataPath:      getEnv("DATA_PATH", "data.json"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    int32(parseIntEnv("DB_MAX_CONNS", 4)),
		LabelsPath:    os.Getenv("LABELS_PATH"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SourceTimeout: parseDuration(getEnv("SOURCE_TIMEOUT", "5s"), 5*time.Second),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	switch cfg.DataSource {
	case DataSourceFile:
		if cfg.DataPath == "" {
			return nil, fmt.Errorf("DATA_PATH must not be empty")
		}
	case DataSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=%s", DataSourcePostgres)
		}
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q (use %s or %s)", cfg.DataSource, DataSourceFile, DataSourcePostgres)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_API", "600/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_API value: %w", err)
	}
	cfg.RateLimitAPI = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
