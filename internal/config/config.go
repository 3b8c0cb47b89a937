// Package config loads ytsearch configuration.
//
// Values are applied in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User config file (~/.config/ytsearch/config.yaml, or --config)
//  3. Environment variables YTSEARCH_API_KEY and YTSEARCH_API_VERSION
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
)

// Environment variables read by Load. These are the only two.
const (
	EnvAPIKey     = "YTSEARCH_API_KEY"
	EnvAPIVersion = "YTSEARCH_API_VERSION"
)

// Config represents the complete ytsearch configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	API     APIConfig     `yaml:"api" json:"api"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig configures the remote Data API client.
type APIConfig struct {
	// Key is the API key credential sent as the "key" query parameter.
	Key string `yaml:"key" json:"-"`
	// Version is the versioned path segment, e.g. "v3".
	Version string `yaml:"version" json:"version"`
	// BaseURL is the API host. Tests point it at an httptest server.
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// SearchConfig configures the interactive search.
type SearchConfig struct {
	// DefaultOrder is the initial sort order: relevance, date or rating.
	DefaultOrder string `yaml:"default_order" json:"default_order"`
	// Debounce is the quiet period after the last keystroke, e.g. "500ms".
	Debounce string `yaml:"debounce" json:"debounce"`
}

// ServerConfig configures `ytsearch serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			Version: "v3",
			BaseURL: "https://www.googleapis.com",
		},
		Search: SearchConfig{
			DefaultOrder: "relevance",
			Debounce:     "500ms",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8765",
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory convention:
//   - $XDG_CONFIG_HOME/ytsearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/ytsearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ytsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "ytsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "ytsearch", "config.yaml")
}

// Load builds the configuration from defaults, the config file at path and
// the environment. An empty path means the user config path; a missing file
// at the default location is fine, a missing explicit file is an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	explicit := path != ""
	if !explicit {
		path = GetUserConfigPath()
	}

	if fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, yterrors.New(yterrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file not found: %s", path), nil)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile builds the configuration from defaults and the file at path only.
// Environment overrides are not applied, so the result is safe to write back.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return yterrors.New(yterrors.ErrCodeConfigPermission,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return yterrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.API.Key != "" {
		c.API.Key = other.API.Key
	}
	if other.API.Version != "" {
		c.API.Version = other.API.Version
	}
	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}

	if other.Search.DefaultOrder != "" {
		c.Search.DefaultOrder = other.Search.DefaultOrder
	}
	if other.Search.Debounce != "" {
		c.Search.Debounce = other.Search.Debounce
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.MaxSizeMB > 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles > 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
}

// applyEnvOverrides applies the two supported environment variables.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.API.Key = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIVersion)); v != "" {
		c.API.Version = v
	}
}

// Validate checks that the configuration is usable.
// A missing API key is not a validation error; see RequireAPIKey.
func (c *Config) Validate() error {
	if c.Version < 1 {
		return yterrors.ConfigError(fmt.Sprintf("unsupported config version %d", c.Version), nil)
	}

	if c.API.Version == "" || strings.Contains(c.API.Version, "/") {
		return yterrors.ConfigError(fmt.Sprintf("api.version must be a single path segment, got %q", c.API.Version), nil)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return yterrors.ConfigError(fmt.Sprintf("api.base_url must be an absolute URL, got %q", c.API.BaseURL), err)
	}

	switch strings.ToLower(strings.TrimSpace(c.Search.DefaultOrder)) {
	case "relevance", "date", "rating":
	default:
		return yterrors.ConfigError(
			fmt.Sprintf("search.default_order must be relevance, date or rating, got %q", c.Search.DefaultOrder), nil)
	}

	if _, err := c.DebounceDelay(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return yterrors.ConfigError(fmt.Sprintf("logging.level %q is not a known level", c.Logging.Level), nil)
	}

	return nil
}

// RequireAPIKey returns an error when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.API.Key != "" {
		return nil
	}
	return yterrors.New(yterrors.ErrCodeAPIKeyMissing, "no API key configured", nil).
		WithSuggestion(fmt.Sprintf("Set %s or add api.key to %s", EnvAPIKey, GetUserConfigPath()))
}

// DebounceDelay parses Search.Debounce.
func (c *Config) DebounceDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil {
		return 0, yterrors.ConfigError(fmt.Sprintf("search.debounce %q is not a duration", c.Search.Debounce), err)
	}
	if d < 0 {
		return 0, yterrors.ConfigError(fmt.Sprintf("search.debounce must not be negative, got %s", d), nil)
	}
	return d, nil
}

// WriteYAML writes the configuration to path, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// The file may carry an API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print, with the API key masked.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.API.Key != "" {
		cp.API.Key = maskKey(cp.API.Key)
	}
	return &cp
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
