package config

import (
	"path/filepath"

	"github.com/stockdesk/stockdesk/internal/logging"
)

// LoggingConfig configures the application logger and the audit trail.
type LoggingConfig struct {
	Level  string      `yaml:"level"          json:"level"`
	Format string      `yaml:"format"         json:"format"`
	File   string      `yaml:"file"           json:"file,omitempty"`
	Caller bool        `yaml:"caller"         json:"caller"`
	Audit  AuditConfig `yaml:"audit"          json:"audit"`
}

// AuditConfig configures the JSON-lines audit log written by mutating commands.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"        json:"enabled"`
	File    string `yaml:"file"           json:"file,omitempty"`
}

// ToLoggingConfig converts config.LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// If File is set, Output becomes "file"; otherwise it is "stderr".
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
		Caller: lc.Caller,
	}
}

// ToAuditLoggerConfig converts the audit section. An enabled audit log with no
// file goes to audit.log under the config directory.
func (lc *LoggingConfig) ToAuditLoggerConfig() logging.AuditLoggerConfig {
	file := lc.Audit.File
	if lc.Audit.Enabled && file == "" {
		if dir, err := GetConfigDir(); err == nil {
			file = filepath.Join(dir, "audit.log")
		}
	}
	return logging.AuditLoggerConfig{
		Enabled: lc.Audit.Enabled,
		File:    file,
	}
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
