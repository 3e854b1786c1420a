package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when CONFIG_FILE is not set
const DefaultConfigFile = "config/config.yaml"

// LoadConfig loads configuration using CONFIG_FILE or the default file path
func LoadConfig() (*Config, error) {
	return Load(getEnv("CONFIG_FILE", DefaultConfigFile))
}

// Load builds the configuration in priority order:
//  1. defaults
//  2. the YAML file at path (a missing file is skipped)
//  3. environment variables
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	if path != "" {
		loaded, err := loadFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if loaded {
			cfg.LoadedFrom = append(cfg.LoadedFrom, path)
		}
	}

	applyEnvironment(cfg)
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) (bool, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return false, err
	}
	return true, nil
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = Environment(strings.ToLower(v))
	}
	cfg.Server.Address = getEnv("SERVER_ADDRESS", cfg.Server.Address)

	cfg.Data.Path = getEnv("DATA_PATH", cfg.Data.Path)
	cfg.Data.URL = getEnv("DATA_URL", cfg.Data.URL)
	cfg.Data.Format = getEnv("DATA_FORMAT", cfg.Data.Format)
	cfg.Data.Watch = getEnvBool("DATA_WATCH", cfg.Data.Watch)
	cfg.Data.RefreshInterval = getEnvDuration("DATA_REFRESH_INTERVAL", cfg.Data.RefreshInterval)

	cfg.Graph.DirectedEdges = getEnvBool("DIRECTED_EDGES", cfg.Graph.DirectedEdges)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	cfg.CORS.Enabled = getEnvBool("ENABLE_CORS", cfg.CORS.Enabled)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}

	cfg.QueryCache.Enabled = getEnvBool("ENABLE_QUERY_CACHE", cfg.QueryCache.Enabled)
	cfg.QueryCache.TTL = getEnvDuration("QUERY_CACHE_TTL", cfg.QueryCache.TTL)

	cfg.Metrics.Enabled = getEnvBool("ENABLE_METRICS", cfg.Metrics.Enabled)
	cfg.Tracing.Enabled = getEnvBool("ENABLE_TRACING", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration gets a duration such as "5m" with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
