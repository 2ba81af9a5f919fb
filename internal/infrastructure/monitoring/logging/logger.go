// Package logging provides the structured logging interface used by every
// component of the case core and its zap-backed implementation. Nothing outside
// this package imports go.uber.org/zap directly.
//
// Initialisation order in cmd/sscs:
//
//  1. Load configuration.
//  2. Call NewLogger(cfg.Log) and store the result with SetDefault.
//  3. Build the remaining components, injecting the Logger.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String constructs a string Field.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Int constructs an int Field.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Int64 constructs an int64 Field.
func Int64(key string, val int64) Field { return Field{Key: key, Value: val} }

// Bool constructs a bool Field.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Duration constructs a time.Duration Field.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// Any constructs a Field holding an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Err captures err under the key "error". A nil err is logged as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// CaseID tags an entry with the case reference.
func CaseID(id int64) Field { return Field{Key: "case_id", Value: id} }

// EventType tags an entry with a case event type.
func EventType(event string) Field { return Field{Key: "event_type", Value: event} }

// Level is a minimum log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel converts s to a Level; unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the structured logging contract injected into every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs and then calls os.Exit(1). Startup failures only.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger carrying fields on every entry.
	With(fields ...Field) Logger

	// WithError is shorthand for With(Err(err)).
	WithError(err error) Logger

	// Named appends name to the logger name ("sscs" -> "sscs.dwp").
	Named(name string) Logger

	// Sync flushes buffered entries.
	Sync() error
}

// LevelController is implemented by loggers whose level can change at runtime.
type LevelController interface {
	SetLevel(level Level)
}

// LogConfig carries the parameters used to build a Logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level Level `mapstructure:"level" yaml:"level" json:"level"`

	// Format is "json" (default) or "console".
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// OutputPaths defaults to ["stdout"] when nil. An empty non-nil slice is rejected.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths defaults to ["stderr"] when nil.
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`
}

type zapLogger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...), level: l.level}
}

func (l *zapLogger) WithError(err error) Logger {
	return l.With(Err(err))
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name), level: l.level}
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// SetLevel changes the minimum level of this logger and all of its children.
func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// NewLogger builds a zap-backed Logger from cfg.
func NewLogger(cfg LogConfig) (Logger, error) {
	if cfg.OutputPaths == nil {
		cfg.OutputPaths = []string{"stdout"}
	}
	if len(cfg.OutputPaths) == 0 {
		return nil, fmt.Errorf("logging: at least one output path is required")
	}
	if cfg.ErrorOutputPaths == nil {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	console := cfg.Format == "console"
	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if console {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(ParseLevel(string(cfg.Level)).zapLevel())
	zapCfg := zap.Config{
		Level:            level,
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z, level: level}, nil
}

// NewDefaultLogger returns an info-level JSON logger on stdout, falling back
// to a no-op logger if zap cannot be built.
func NewDefaultLogger() Logger {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json"})
	if err != nil {
		return NewNopLogger()
	}
	return l
}

// NewDevelopmentLogger returns a debug-level console logger.
func NewDevelopmentLogger() Logger {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	if err != nil {
		return NewNopLogger()
	}
	return l
}

// NewLoggerFromCore wraps an existing core. Used with zaptest/observer.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1)), level: zap.NewAtomicLevel()}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)   {}
func (nopLogger) Info(string, ...Field)    {}
func (nopLogger) Warn(string, ...Field)    {}
func (nopLogger) Error(string, ...Field)   {}
func (nopLogger) Fatal(string, ...Field)   {}
func (n nopLogger) With(...Field) Logger   { return n }
func (n nopLogger) WithError(error) Logger { return n }
func (n nopLogger) Named(string) Logger    { return n }
func (nopLogger) Sync() error              { return nil }

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide Logger. A nil l is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide Logger. Prefer constructor injection.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}
