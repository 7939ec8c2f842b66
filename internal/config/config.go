package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stockdesk/stockdesk/internal/logging"
)

// Default values applied by New before the config file and environment are read.
const (
	DefaultBaseURL          = "http://localhost:8080"
	DefaultTimeoutSeconds   = 15
	DefaultMaxRetries       = 3
	DefaultRetryBaseMillis  = 200
	DefaultRetryMaxMillis   = 3000
	DefaultServerConstraint = ">= 1.0.0"
	DefaultOutputFormat     = "table"
	DefaultPageSize         = 20
	DefaultRowHeight        = 1
	DefaultOverscan         = 8
	DefaultVirtualizeAbove  = 20
	DefaultSearchDebounceMS = 300
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"

	configFileName = "config.yaml"
)

// Config is the stockdesk configuration file.
type Config struct {
	API     APIConfig     `yaml:"api"     json:"api"`
	Output  OutputConfig  `yaml:"output"  json:"output"`
	Table   TableConfig   `yaml:"table"   json:"table"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// path of the file this config was loaded from; empty for defaults.
	path string

	loadErr error
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	BaseURL             string `yaml:"base_url"             json:"base_url"`
	Token               string `yaml:"token"                json:"token,omitempty"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"      json:"timeout_seconds"`
	MaxRetries          int    `yaml:"max_retries"          json:"max_retries"`
	RetryBaseMillis     int    `yaml:"retry_base_ms"        json:"retry_base_ms"`
	RetryMaxMillis      int    `yaml:"retry_max_ms"         json:"retry_max_ms"`
	ServerVersion       string `yaml:"server_version"       json:"server_version"`
	StrictCompatibility bool   `yaml:"strict_compatibility" json:"strict_compatibility"`
}

// Timeout returns the per-attempt request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RetryBase returns the first backoff delay.
func (a APIConfig) RetryBase() time.Duration {
	return time.Duration(a.RetryBaseMillis) * time.Millisecond
}

// RetryMax returns the backoff cap.
func (a APIConfig) RetryMax() time.Duration {
	return time.Duration(a.RetryMaxMillis) * time.Millisecond
}

// OutputConfig holds defaults for non-interactive commands.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	PageSize      int    `yaml:"page_size"      json:"page_size"`
}

// TableConfig holds the windowed table and browser settings.
type TableConfig struct {
	RowHeight            int `yaml:"row_height"         json:"row_height"`
	Overscan             int `yaml:"overscan"           json:"overscan"`
	VirtualizeAbove      int `yaml:"virtualize_above"   json:"virtualize_above"`
	SearchDebounceMillis int `yaml:"search_debounce_ms" json:"search_debounce_ms"`
	// PreserveScroll keeps the table offset across page changes instead of returning to the top.
	PreserveScroll bool `yaml:"preserve_scroll" json:"preserve_scroll"`
}

// SearchDebounce returns the search input debounce delay.
func (t TableConfig) SearchDebounce() time.Duration {
	return time.Duration(t.SearchDebounceMillis) * time.Millisecond
}

// New returns the defaults merged with ~/.stockdesk/config.yaml and STOCKDESK_* overrides.
// A missing file leaves the defaults in place. An unreadable or malformed one
// does too, and is reported by LoadError.
func New() *Config {
	return newConfig(context.Background())
}

func newConfig(ctx context.Context) *Config {
	cfg := Defaults()

	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, configFileName)
		loaded := Defaults()
		loaded.path = path
		switch err := loaded.Load(); {
		case err == nil:
			cfg = loaded
		case isNotExist(err):
			cfg.path = path
		default:
			cfg.path = path
			cfg.loadErr = err
			logging.FromContext(ctx).Warn().
				Str("component", "config").
				Str("operation", "load").
				Err(err).
				Str("path", path).
				Msg("ignoring unreadable config file, using defaults")
		}
	}
	cfg.applyEnv()

	return cfg
}

// LoadError returns why the user config file was ignored, or nil when it was
// read or does not exist.
func (c *Config) LoadError() error {
	return c.loadErr
}

// Defaults returns a config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			TimeoutSeconds:  DefaultTimeoutSeconds,
			MaxRetries:      DefaultMaxRetries,
			RetryBaseMillis: DefaultRetryBaseMillis,
			RetryMaxMillis:  DefaultRetryMaxMillis,
			ServerVersion:   DefaultServerConstraint,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			PageSize:      DefaultPageSize,
		},
		Table: TableConfig{
			RowHeight:            DefaultRowHeight,
			Overscan:             DefaultOverscan,
			VirtualizeAbove:      DefaultVirtualizeAbove,
			SearchDebounceMillis: DefaultSearchDebounceMS,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Path returns the file backing this config.
func (c *Config) Path() string {
	return c.path
}

// SetPath points the config at a different file for Load and Save.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Load reads the config file on top of the current values.
func (c *Config) Load() error {
	if c.path == "" {
		return errors.New("config path not set")
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", c.path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.path, err)
	}
	return nil
}

// Save writes the config file, creating its directory when needed.
// The file holds a bearer token so it is written 0600.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.path, err)
	}
	return nil
}

// applyEnv overlays STOCKDESK_* environment variables. Unparseable values are ignored.
func (c *Config) applyEnv() {
	if v := os.Getenv("STOCKDESK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STOCKDESK_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("STOCKDESK_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("STOCKDESK_STRICT_COMPATIBILITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.API.StrictCompatibility = b
		}
	}
	if v := os.Getenv("STOCKDESK_OUTPUT_FORMAT"); v != "" {
		c.Output.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv("STOCKDESK_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STOCKDESK_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("STOCKDESK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}
