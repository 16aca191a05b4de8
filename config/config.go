// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store modes.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRemote = "remote"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	OpenAPI OpenAPIConfig `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// APIKeyHash is a bcrypt hash of the bearer token required on /api.
	// Empty disables the check.
	APIKeyHash string `yaml:"api_key_hash,omitempty"`
}

// StoreConfig selects the backing store.
type StoreConfig struct {
	Mode   string       `yaml:"mode"` // "memory", "sqlite" or "remote"
	DSN    string       `yaml:"dsn"`
	Remote RemoteConfig `yaml:"remote,omitempty"`
}

// RemoteConfig configures a remote service endpoint.
type RemoteConfig struct {
	URL     string            `yaml:"url"`
	APIKey  string            `yaml:"api_key,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// SessionConfig configures the editor session core.
type SessionConfig struct {
	DefaultTabName string `yaml:"default_tab_name"`
	EventBuffer    int    `yaml:"event_buffer"` // per event stream client
}

// CatalogConfig configures the entity catalogs.
type CatalogConfig struct {
	AppModes []string       `yaml:"app_modes"`
	Sources  []SourceConfig `yaml:"sources,omitempty"` // empty uses the built-in list
}

// SourceConfig is one entry of the source file catalog.
type SourceConfig struct {
	Title    string           `yaml:"title"`
	Subtitle string           `yaml:"subtitle"`
	Path     string           `yaml:"path"`
	Lang     string           `yaml:"lang,omitempty"`
	Files    []SourceFileConf `yaml:"files,omitempty"`
}

// SourceFileConf is one file of a multi-file source entry.
type SourceFileConf struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Lang string `yaml:"lang"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable /swagger endpoints
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references and
// applying WIZIDE_* overrides and defaults. Bare $VAR is left alone so
// bcrypt hashes survive.
func Parse(data []byte) (*Config, error) {
	data = expandEnv(data)

	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	WIZIDE_SERVER_HOST          - Server host (default: 127.0.0.1)
//	WIZIDE_SERVER_PORT          - Server port (default: 8765)
//	WIZIDE_SERVER_API_KEY_HASH  - bcrypt hash of the API bearer token
//	WIZIDE_STORE_MODE           - memory, sqlite or remote (default: memory)
//	WIZIDE_STORE_DSN            - SQLite path (default: wizide.db)
//	WIZIDE_STORE_REMOTE_URL     - Remote service base URL
//	WIZIDE_STORE_REMOTE_API_KEY - Remote service bearer token
//	WIZIDE_SESSION_DEFAULT_TAB  - Default tab name (default: code)
//	WIZIDE_LOG_LEVEL            - debug, info, warn, error (default: info)
//	WIZIDE_LOG_FORMAT           - json or console (default: json)
//	WIZIDE_METRICS_ENABLED      - Enable /metrics endpoint (default: true)
//	WIZIDE_OPENAPI_ENABLED      - Enable Swagger UI (default: true)
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// applyEnvOverrides applies WIZIDE_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("WIZIDE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WIZIDE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WIZIDE_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("WIZIDE_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("WIZIDE_SERVER_API_KEY_HASH"); v != "" {
		cfg.Server.APIKeyHash = v
	}

	// Store configuration
	if v := os.Getenv("WIZIDE_STORE_MODE"); v != "" {
		cfg.Store.Mode = v
	}
	if v := os.Getenv("WIZIDE_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("WIZIDE_STORE_REMOTE_URL"); v != "" {
		cfg.Store.Remote.URL = v
	}
	if v := os.Getenv("WIZIDE_STORE_REMOTE_API_KEY"); v != "" {
		cfg.Store.Remote.APIKey = v
	}
	if v := os.Getenv("WIZIDE_STORE_REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Store.Remote.Timeout = d
		}
	}

	// Session configuration
	if v := os.Getenv("WIZIDE_SESSION_DEFAULT_TAB"); v != "" {
		cfg.Session.DefaultTabName = v
	}
	if v := os.Getenv("WIZIDE_SESSION_EVENT_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.EventBuffer = n
		}
	}

	// Logging configuration
	if v := os.Getenv("WIZIDE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WIZIDE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("WIZIDE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("WIZIDE_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI configuration
	if v := os.Getenv("WIZIDE_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8765
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Store.Mode == "" {
		cfg.Store.Mode = StoreMemory
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = "wizide.db"
	}
	if cfg.Store.Remote.Timeout == 0 {
		cfg.Store.Remote.Timeout = 10 * time.Second
	}

	if cfg.Session.DefaultTabName == "" {
		cfg.Session.DefaultTabName = "code"
	}
	if cfg.Session.EventBuffer == 0 {
		cfg.Session.EventBuffer = 64
	}

	if len(cfg.Catalog.AppModes) == 0 {
		cfg.Catalog.AppModes = []string{"page", "component", "layout"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

var modePattern = regexp.MustCompile(`^[a-z0-9]+$`)

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	validStoreModes := map[string]bool{StoreMemory: true, StoreSQLite: true, StoreRemote: true}
	if !validStoreModes[cfg.Store.Mode] {
		return fmt.Errorf("store.mode must be one of: memory, sqlite, remote, got %q", cfg.Store.Mode)
	}
	if cfg.Store.Mode == StoreRemote && cfg.Store.Remote.URL == "" {
		return fmt.Errorf("store.remote.url is required when store.mode is 'remote'")
	}

	if cfg.Session.EventBuffer < 1 {
		return fmt.Errorf("session.event_buffer must be positive, got %d", cfg.Session.EventBuffer)
	}

	seen := make(map[string]bool)
	for i, mode := range cfg.Catalog.AppModes {
		if !modePattern.MatchString(mode) {
			return fmt.Errorf("catalog.app_modes[%d] must be lowercase alphanumeric, got %q", i, mode)
		}
		if seen[mode] {
			return fmt.Errorf("catalog.app_modes[%d] duplicates %q", i, mode)
		}
		seen[mode] = true
	}
	for i, src := range cfg.Catalog.Sources {
		if src.Path == "" {
			return fmt.Errorf("catalog.sources[%d].path is required", i)
		}
		for j, f := range src.Files {
			if f.Path == "" {
				return fmt.Errorf("catalog.sources[%d].files[%d].path is required", i, j)
			}
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}
