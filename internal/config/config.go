package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anstrom/meterexporter/internal/errors"
)

// Default listen settings.
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultMetricsPath = "/metrics"
	maxPort            = 65535
)

// Config represents the complete exporter configuration
type Config struct {
	// HTTP server configuration
	Server ServerConfig `yaml:"server" json:"server" mapstructure:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Metrics exposition configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	// Listen address
	Host string `yaml:"host" json:"host" mapstructure:"host"`

	// Listen port
	Port int `yaml:"port" json:"port" mapstructure:"port"`

	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout" mapstructure:"idle_timeout"`

	// Per-request context deadline; zero disables it
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" mapstructure:"request_timeout"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	MaxHeaderBytes int `yaml:"max_header_bytes" json:"max_header_bytes" mapstructure:"max_header_bytes"`

	// Honour X-Forwarded-For and friends when running behind a proxy
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" json:"trust_proxy_headers" mapstructure:"trust_proxy_headers"`

	// CORS settings
	CORS CORSConfig `yaml:"cors" json:"cors" mapstructure:"cors"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers" mapstructure:"allowed_headers"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format" mapstructure:"format"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output" mapstructure:"output"`
}

// MetricsConfig holds exposition settings
type MetricsConfig struct {
	// Path the exposition is served on
	Path string `yaml:"path" json:"path" mapstructure:"path"`

	// Export Go runtime metrics alongside readings; on by default
	GoCollector bool `yaml:"go_collector" json:"go_collector" mapstructure:"go_collector"`

	// Export process memory and CPU metrics alongside readings; on by default
	ProcessCollector bool `yaml:"process_collector" json:"process_collector" mapstructure:"process_collector"`

	// Count HTTP requests per ingestion route
	InstrumentHTTP bool `yaml:"instrument_http" json:"instrument_http" mapstructure:"instrument_http"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxHeaderBytes:  1 << 20,
			CORS: CORSConfig{
				Enabled:        false,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Path:             DefaultMetricsPath,
			GoCollector:      true,
			ProcessCollector: true,
			InstrumentHTTP:   false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return errors.ErrConfigInvalid("server.port", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.ErrConfigInvalid("server.shutdown_timeout", c.Server.ShutdownTimeout)
	}
	if c.Server.RequestTimeout < 0 {
		return errors.ErrConfigInvalid("server.request_timeout", c.Server.RequestTimeout)
	}
	if c.Server.CORS.Enabled && len(c.Server.CORS.AllowedOrigins) == 0 {
		return errors.ErrConfigMissing("server.cors.allowed_origins")
	}

	if c.Metrics.Path == "" {
		return errors.ErrConfigMissing("metrics.path")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.ErrConfigInvalid("metrics.path", c.Metrics.Path)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.ErrConfigInvalid("logging.level", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.ErrConfigInvalid("logging.format", c.Logging.Format)
	}

	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
