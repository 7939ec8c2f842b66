package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// ValidOutputFormats lists the accepted output.default_format values.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var ValidOutputFormats = []string{"table", "json", "ndjson"}

// ValidLogFormats lists the accepted logging.format values.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var ValidLogFormats = []string{"console", "json"}

// Validate checks the configuration and returns criterio.FieldErrors naming every bad field.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateAPI(),
		c.validateOutput(),
		c.validateTable(),
		c.validateLogging(),
	)
}

func (c *Config) validateAPI() error {
	var errs criterio.FieldErrorsBuilder
	if err := baseURL(c.API.BaseURL); err != nil {
		errs = errs.Append("api.base_url", err)
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = errs.Append("api.timeout_seconds", fmt.Errorf("must be positive, got %d", c.API.TimeoutSeconds))
	}
	if c.API.MaxRetries < 0 {
		errs = errs.Append("api.max_retries", fmt.Errorf("must not be negative, got %d", c.API.MaxRetries))
	}
	if c.API.RetryBaseMillis <= 0 {
		errs = errs.Append("api.retry_base_ms", fmt.Errorf("must be positive, got %d", c.API.RetryBaseMillis))
	}
	if c.API.RetryMaxMillis < c.API.RetryBaseMillis {
		errs = errs.Append("api.retry_max_ms", fmt.Errorf("must be at least retry_base_ms (%d)", c.API.RetryBaseMillis))
	}
	if c.API.ServerVersion != "" {
		if _, err := semver.NewConstraint(c.API.ServerVersion); err != nil {
			errs = errs.Append("api.server_version", fmt.Errorf("invalid constraint %q: %w", c.API.ServerVersion, err))
		}
	}
	return errs.ToError()
}

func (c *Config) validateOutput() error {
	return criterio.ValidateStruct(
		criterio.Run("output.default_format", c.Output.DefaultFormat, oneOf(ValidOutputFormats)),
		criterio.Run("output.page_size", c.Output.PageSize, between(1, 1000)),
	)
}

func (c *Config) validateTable() error {
	return criterio.ValidateStruct(
		criterio.Run("table.row_height", c.Table.RowHeight, between(1, 10)),
		criterio.Run("table.overscan", c.Table.Overscan, between(0, 1000)),
		criterio.Run("table.virtualize_above", c.Table.VirtualizeAbove, between(0, 1_000_000)),
		criterio.Run("table.search_debounce_ms", c.Table.SearchDebounceMillis, between(0, 10_000)),
	)
}

func (c *Config) validateLogging() error {
	return criterio.ValidateStruct(
		criterio.Run("logging.level", c.Logging.Level, logLevel),
		criterio.Run("logging.format", c.Logging.Format, oneOf(ValidLogFormats)),
	)
}

func baseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

func logLevel(level string) error {
	if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		if slices.Contains(allowed, strings.ToLower(v)) {
			return nil
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

func between(lo, hi int) func(int) error {
	return func(v int) error {
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d, got %d", lo, hi, v)
		}
		return nil
	}
}
