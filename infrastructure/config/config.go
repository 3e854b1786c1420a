// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in increasing order of priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment is the deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	Environment    Environment    `yaml:"environment" validate:"required,oneof=development staging production"`
	Server         Server         `yaml:"server"`
	Data           Data           `yaml:"data"`
	Graph          Graph          `yaml:"graph"`
	Logging        Logging        `yaml:"logging"`
	CORS           CORS           `yaml:"cors"`
	Metrics        Metrics        `yaml:"metrics"`
	Tracing        Tracing        `yaml:"tracing"`
	CircuitBreaker CircuitBreaker `yaml:"circuit_breaker"`
	QueryCache     QueryCache     `yaml:"query_cache"`

	// LoadedFrom lists the sources that contributed, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// Server configures the HTTP listener
type Server struct {
	Address         string        `yaml:"address" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxRequestBytes int64         `yaml:"max_request_bytes" validate:"gt=0"`
}

// Data configures where the membership matrix comes from.
// URL takes precedence over Path when both are set.
type Data struct {
	Path            string        `yaml:"path"`
	URL             string        `yaml:"url" validate:"omitempty,url"`
	Format          string        `yaml:"format" validate:"oneof=auto json xlsx csv"`
	Watch           bool          `yaml:"watch"`
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	MaxItemNumber   int           `yaml:"max_item_number" validate:"gte=0"`
}

// UsesURL reports whether the matrix is fetched over HTTP
func (d Data) UsesURL() bool {
	return d.URL != ""
}

// Graph configures group discovery
type Graph struct {
	DirectedEdges bool `yaml:"directed_edges"`
}

// Logging configures zap
type Logging struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// CORS configures cross-origin access for browser renderers
type CORS struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" validate:"required_if=Enabled true"`
}

// Metrics configures the Prometheus endpoint
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required"`
}

// Tracing configures OpenTelemetry export
type Tracing struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `yaml:"service_name" validate:"required"`
}

// CircuitBreaker configures the breaker around remote matrix fetches
type CircuitBreaker struct {
	MaxRequests      uint32        `yaml:"max_requests" validate:"gt=0"`
	Interval         time.Duration `yaml:"interval" validate:"gte=0"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	FailureThreshold float64       `yaml:"failure_threshold" validate:"gt=0,lte=1"`
	MinRequests      uint32        `yaml:"min_requests" validate:"gt=0"`
}

// QueryCache configures caching of query results per dataset snapshot
type QueryCache struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl" validate:"gt=0"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" validate:"gt=0"`
}

// Default returns the configuration used before any file or env overlay
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxRequestBytes: 1 << 20,
		},
		Data: Data{
			Path:          "data/data.json",
			Format:        "auto",
			FetchTimeout:  30 * time.Second,
			MaxItemNumber: 100,
		},
		Logging: Logging{Level: "info"},
		CORS: CORS{
			Enabled:        true,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5000"},
		},
		Metrics: Metrics{Enabled: true, Namespace: "srm"},
		Tracing: Tracing{ServiceName: "srm-backend"},
		CircuitBreaker: CircuitBreaker{
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      3,
		},
		QueryCache: QueryCache{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
		},
	}
}

// Validate checks struct rules and cross-field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Data.Path == "" && c.Data.URL == "" {
		return fmt.Errorf("data.path or data.url is required")
	}
	if c.Data.Watch && c.Data.UsesURL() {
		return fmt.Errorf("data.watch only applies to data.path; use data.refresh_interval for data.url")
	}
	return nil
}

func formatValidationError(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
