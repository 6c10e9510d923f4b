// Package config loads and validates the process configuration from
// an optional file (TOML, YAML or JSON, selected by extension) with
// LLAMAMCP_* environment overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters. Zero values mean "unspecified" and
// are replaced by defaults in Finalize.
type Config struct {
	// Base URL of the llama-server instance all client calls target.
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`
	// Request timeout in milliseconds, shared by every client call.
	TimeoutMS int `json:"timeout_ms" yaml:"timeout_ms" toml:"timeout_ms"`
	// Path to the llama-server executable used by server_start.
	ServerBin string `json:"server_bin" yaml:"server_bin" toml:"server_bin"`
	// Listen address for the admin HTTP surface; empty disables it.
	AdminAddr string `json:"admin_addr" yaml:"admin_addr" toml:"admin_addr"`
	// Log level: debug|info|warn|error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// CORS settings for the admin surface (opt-in).
	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	// Readiness poll budget for server_start. Zero selects 30 x 1000ms.
	PollAttempts   int `json:"poll_attempts" yaml:"poll_attempts" toml:"poll_attempts"`
	PollIntervalMS int `json:"poll_interval_ms" yaml:"poll_interval_ms" toml:"poll_interval_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from LLAMAMCP_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLAMAMCP_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LLAMAMCP_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutMS = n
		}
	}
	if v := os.Getenv("LLAMAMCP_SERVER_BIN"); v != "" {
		c.ServerBin = v
	}
	if v := os.Getenv("LLAMAMCP_ADMIN_ADDR"); v != "" {
		c.AdminAddr = v
	}
	if v := os.Getenv("LLAMAMCP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Finalize fills defaults and validates the result.
func (c *Config) Finalize() error {
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:8080"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 30000
	}
	if c.ServerBin == "" {
		c.ServerBin = "llama-server"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMS)
	}
	if c.PollAttempts < 0 || c.PollIntervalMS < 0 {
		return fmt.Errorf("poll settings must not be negative")
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
