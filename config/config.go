package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/slighter12/mcp-toolserver-go/mcp"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultBatchWorkers = 4
	defaultAuditBuffer  = 256
	maxBatchWorkers     = 256
)

// Config represents the tool server configuration
type Config struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Server    Server    `json:"server"`
	Logging   Logging   `json:"logging"`
	Discovery Discovery `json:"discovery"`
	Dispatch  Dispatch  `json:"dispatch"`
	Audit     Audit     `json:"audit"`
}

// Server represents server configuration
type Server struct {
	Host         string `json:"host" env:"MCP_HOST"`
	Port         int    `json:"port" env:"MCP_PORT"`
	Debug        bool   `json:"debug" env:"MCP_DEBUG"`
	MaxBodyBytes int64  `json:"max_body_bytes" env:"MCP_MAX_BODY_BYTES"`
}

// Logging represents logging configuration
type Logging struct {
	Level  string `json:"level" env:"MCP_LOG_LEVEL"`
	Format string `json:"format" env:"MCP_LOG_FORMAT"`
	Path   string `json:"path" env:"MCP_LOG_PATH"`
}

// Discovery locates the tool manifests loaded at startup.
type Discovery struct {
	Dir   string `json:"dir" env:"MCP_TOOLS_DIR"`
	Watch bool   `json:"watch" env:"MCP_TOOLS_WATCH"`
}

// Dispatch tunes JSON-RPC batch handling.
type Dispatch struct {
	BatchWorkers int `json:"batch_workers" env:"MCP_BATCH_WORKERS"`
}

// Audit controls the dispatch audit trail.
type Audit struct {
	Enabled bool `json:"enabled" env:"MCP_AUDIT_ENABLED"`
	Buffer  int  `json:"buffer" env:"MCP_AUDIT_BUFFER"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return &Config{
		Name:    mcp.ServerName,
		Version: mcp.ServerVersion,
		Server: Server{
			Host:         "localhost",
			Port:         8001,
			Debug:        false,
			MaxBodyBytes: defaultMaxBodyBytes,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			Path:   filepath.Join(home, ".mcp-toolserver", "logs", "mcp.log"),
		},
		Discovery: Discovery{
			Dir:   mcp.DefaultToolsDir,
			Watch: false,
		},
		Dispatch: Dispatch{
			BatchWorkers: defaultBatchWorkers,
		},
		Audit: Audit{
			Enabled: true,
			Buffer:  defaultAuditBuffer,
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return finish(cfg)
}

// LoadOrDefault loads path when it exists and falls back to defaults otherwise.
// Environment overrides apply in both cases.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return finish(NewConfig())
}

func finish(cfg *Config) (*Config, error) {
	// Environment variables have the highest priority.
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// Normalize canonicalizes config values so downstream validation and runtime
// logic operate on stable representations.
func (c *Config) Normalize() {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Path = strings.TrimSpace(c.Logging.Path)
	c.Discovery.Dir = strings.TrimSpace(c.Discovery.Dir)
	if c.Discovery.Dir == "" {
		c.Discovery.Dir = mcp.DefaultToolsDir
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Dispatch.BatchWorkers == 0 {
		c.Dispatch.BatchWorkers = defaultBatchWorkers
	}
	if c.Audit.Buffer == 0 {
		c.Audit.Buffer = defaultAuditBuffer
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid port number")
	}

	if c.Server.Host == "" {
		return errors.New("host cannot be empty")
	}

	if c.Server.MaxBodyBytes < 0 {
		return errors.New("max body bytes cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("invalid log level")
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.New("invalid log format")
	}

	if c.Dispatch.BatchWorkers < 1 || c.Dispatch.BatchWorkers > maxBatchWorkers {
		return fmt.Errorf("invalid batch workers %d: expected range 1..%d", c.Dispatch.BatchWorkers, maxBatchWorkers)
	}

	if c.Audit.Buffer < 1 {
		return fmt.Errorf("invalid audit buffer %d: must be positive", c.Audit.Buffer)
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ResolveConfigPath returns the path that should be used for configuration.
func ResolveConfigPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("MCP_CONFIG_PATH")); path != "" {
		return path, nil
	}

	if _, err := os.Stat("config/mcp_config.json"); err == nil {
		return "config/mcp_config.json", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".mcp-toolserver", "config", "mcp_config.json"), nil
}
