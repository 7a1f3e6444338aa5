package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithCall(meta CallMeta) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return &noopLogger{}
}

type noopLogger struct{}

func (l *noopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) WithCall(meta CallMeta) Logger                          { return l }

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level. Unknown levels fall back to
// info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// redacted lists field keys whose values may carry credentials or
// payloads. They are masked before serialization.
var redacted = map[string]struct{}{
	"body":          {},
	"password":      {},
	"secret":        {},
	"token":         {},
	"api_key":       {},
	"apiKey":        {},
	"credential":    {},
	"authorization": {},
}

// jsonLogger writes one JSON object per line.
type jsonLogger struct {
	level LogLevel
	base  map[string]any
	out   *lockedWriter
}

// lockedWriter serializes writes from a logger and everything derived
// from it.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) writeLine(data []byte) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.w.Write(data)
	lw.w.Write([]byte("\n"))
}

// NewLogger creates a JSON logger on stderr at the given level.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger on the given writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{
		level: ParseLogLevel(level),
		base:  map[string]any{},
		out:   &lockedWriter{w: w},
	}
}

// WithCall returns a logger that stamps every entry with the call
// identity. The derived logger shares the writer and its lock.
func (l *jsonLogger) WithCall(meta CallMeta) Logger {
	base := make(map[string]any, len(l.base)+4)
	for k, v := range l.base {
		base[k] = v
	}
	base["call.dependency"] = meta.Dependency
	if meta.Operation != "" {
		base["call.operation"] = meta.Operation
	}
	if meta.Method != "" {
		base["http.method"] = meta.Method
	}
	if meta.Path != "" {
		base["http.path"] = meta.Path
	}

	return &jsonLogger{
		level: l.level,
		base:  base,
		out:   l.out,
	}
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelError, msg, fields)
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelDebug, msg, fields)
}

func (l *jsonLogger) emit(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.base)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	for k, v := range l.base {
		entry[k] = v
	}
	for _, f := range fields {
		if _, mask := redacted[f.Key]; mask {
			entry[f.Key] = "[REDACTED]"
		} else {
			entry[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// An unmarshalable field value drops the whole entry.
		return
	}
	l.out.writeLine(data)
}

var _ Logger = (*jsonLogger)(nil)
