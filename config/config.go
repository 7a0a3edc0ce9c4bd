// Package config provides configuration loading and validation for pagefuse.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pagefuse configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP transport shim.
type ServerConfig struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`
	// MaxUploadSize caps the uploaded archive size in bytes.
	MaxUploadSize int64 `yaml:"max_upload_size"`
	// MaxExtractedSize caps the cumulative extracted bundle size in bytes.
	MaxExtractedSize int64 `yaml:"max_extracted_size"`
}

// FetchConfig configures outbound HTTP fetching.
type FetchConfig struct {
	// Timeout applies uniformly to the primary document fetch and to
	// every asset fetch (e.g. "10s").
	Timeout string `yaml:"timeout"`
	// UserAgent is the User-Agent header for outbound requests.
	UserAgent string `yaml:"user_agent"`
	// MaxAssetSize caps each fetched response body in bytes.
	MaxAssetSize int64 `yaml:"max_asset_size"`
	// MaxConcurrent bounds the asset fetch fan-out per document.
	MaxConcurrent int `yaml:"max_concurrent"`
	// BlockPrivateHosts refuses fetches targeting localhost, private IPs,
	// and local domains. Disable only for trusted internal deployments.
	BlockPrivateHosts bool `yaml:"block_private_hosts"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:           ":8080",
			MaxUploadSize:    32 << 20,  // 32 MB
			MaxExtractedSize: 256 << 20, // 256 MB
		},
		Fetch: FetchConfig{
			Timeout:           "10s",
			UserAgent:         "pagefuse/1.0",
			MaxAssetSize:      10 << 20, // 10 MB
			MaxConcurrent:     16,
			BlockPrivateHosts: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("server.max_upload_size must be positive")
	}
	if c.Server.MaxExtractedSize <= 0 {
		return fmt.Errorf("server.max_extracted_size must be positive")
	}
	if _, err := time.ParseDuration(c.Fetch.Timeout); err != nil {
		return fmt.Errorf("invalid fetch.timeout format: %w", err)
	}
	if c.Fetch.MaxAssetSize <= 0 {
		return fmt.Errorf("fetch.max_asset_size must be positive")
	}
	if c.Fetch.MaxConcurrent <= 0 {
		return fmt.Errorf("fetch.max_concurrent must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// FetchTimeout returns the parsed fetch timeout. Validate must have
// accepted the config first.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LogLevel maps the configured level name to a slog.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
