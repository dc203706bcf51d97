// Package config loads builder settings from YAML files and BUILDER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration shared by the builder binaries.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Charts  ChartsConfig  `yaml:"charts"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// APIConfig points the builder at the layout persistence API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig describes the HTTP listeners.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// ChartsConfig tunes chart rendering.
type ChartsConfig struct {
	Theme      string        `yaml:"theme"`
	AssetsHost string        `yaml:"assets_host"`
	Height     string        `yaml:"height"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// StoreConfig selects the reference API storage.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig enables the OTLP HTTP exporter.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	ServiceName  string  `yaml:"service_name"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Server modes.
const (
	ModeFiber = "fiber"
	ModeHTTP  = "http"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Defaults returns a Config with the stock values.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3001",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/builder",
			Mode:            ModeFiber,
			ShutdownTimeout: 10 * time.Second,
		},
		Charts: ChartsConfig{
			Theme:    "westeros",
			Height:   "300px",
			CacheTTL: 5 * time.Minute,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Path:   "data/layouts.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Tracing: TracingConfig{
			ServiceName:  "go-dashboard-builder",
			SamplingRate: 1,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies BUILDER_*
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides values from BUILDER_* variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return
		}
		*dst = d
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return
		}
		*dst = b
	}

	str("BUILDER_API_URL", &c.API.BaseURL)
	str("BUILDER_API_KEY", &c.API.APIKey)
	dur("BUILDER_API_TIMEOUT", &c.API.Timeout)
	str("BUILDER_ADDR", &c.Server.Addr)
	str("BUILDER_BASE_PATH", &c.Server.BasePath)
	str("BUILDER_SERVER_MODE", &c.Server.Mode)
	str("BUILDER_CHART_THEME", &c.Charts.Theme)
	str("BUILDER_CHART_ASSETS_HOST", &c.Charts.AssetsHost)
	str("BUILDER_STORE_DRIVER", &c.Store.Driver)
	str("BUILDER_STORE_PATH", &c.Store.Path)
	str("BUILDER_LOG_LEVEL", &c.Logging.Level)
	str("BUILDER_LOG_FORMAT", &c.Logging.Format)
	boolean("BUILDER_TRACING_ENABLED", &c.Tracing.Enabled)
	str("BUILDER_TRACING_ENDPOINT", &c.Tracing.Endpoint)
	return errors.Join(errs...)
}

// Validate checks the values the binaries depend on.
func (c *Config) Validate() error {
	var errs []string
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		errs = append(errs, "api.base_url must be an absolute url")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, "server.base_path must start with /")
	}
	switch c.Server.Mode {
	case ModeFiber, ModeHTTP:
	default:
		errs = append(errs, fmt.Sprintf("server.mode %q is not one of fiber, http", c.Server.Mode))
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, "store.path is required for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not one of memory, sqlite", c.Store.Driver))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of json, console", c.Logging.Format))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, "tracing.endpoint is required when tracing is enabled")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
