package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEntry records one state-changing command against the backend.
type AuditEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	TraceID    string            `json:"trace_id"`
	Command    string            `json:"command"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Affected   int               `json:"affected,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

// NewAuditEntry starts an entry for command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Command:   command,
	}
}

// WithParameters attaches the command parameters.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = params
	return e
}

// WithSuccess marks the entry successful with the number of affected records.
func (e *AuditEntry) WithSuccess(affected int) *AuditEntry {
	e.Success = true
	e.Affected = affected
	return e
}

// WithError marks the entry failed.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the elapsed time since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.DurationMS = time.Since(start).Milliseconds()
	return e
}

// AuditLogger writes audit entries.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
	Close() error
}

// AuditLoggerConfig enables the audit trail and names its file.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// NewAuditLogger returns a JSON-lines file logger, or a no-op logger when disabled or
// when the file cannot be opened.
func NewAuditLogger(cfg AuditLoggerConfig) AuditLogger {
	if !cfg.Enabled || cfg.File == "" {
		return noopAuditLogger{}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return noopAuditLogger{}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return noopAuditLogger{}
	}
	return &fileAuditLogger{file: f, enc: json.NewEncoder(f)}
}

type fileAuditLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

func (l *fileAuditLogger) Log(ctx context.Context, entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	if err := l.enc.Encode(entry); err != nil {
		FromContext(ctx).Warn().Err(err).Str("command", entry.Command).Msg("failed to write audit entry")
	}
}

func (l *fileAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

type noopAuditLogger struct{}

func (noopAuditLogger) Log(context.Context, AuditEntry) {}
func (noopAuditLogger) Close() error                    { return nil }

type auditLoggerKey struct{}

// ContextWithAuditLogger stores l in ctx.
func ContextWithAuditLogger(ctx context.Context, l AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, l)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a no-op logger.
func AuditLoggerFromContext(ctx context.Context) AuditLogger {
	if ctx != nil {
		if l, ok := ctx.Value(auditLoggerKey{}).(AuditLogger); ok {
			return l
		}
	}
	return noopAuditLogger{}
}
