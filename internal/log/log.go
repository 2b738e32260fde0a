package log

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Logger is implemented by every logging backend of the service.
//
// Log must be safe for concurrent use. With and WithGroup return derived
// loggers and leave the receiver untouched.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	WithGroup(name string) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// Level is a log severity. Lower values are more severe, so a logger at
// LevelInfo emits LevelError, LevelWarn and LevelInfo.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (level Level) String() string {
	if int(level) < len(levelNames) {
		return levelNames[level]
	}

	return "unknown"
}

// ParseLevel maps a LOG_LEVEL value to a Level. Case and surrounding spaces
// are ignored and "warning" is accepted for LevelWarn.
func ParseLevel(lvl string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(lvl))
	if name == "warning" {
		name = "warn"
	}

	for level, candidate := range levelNames {
		if candidate == name {
			return Level(level), nil
		}
	}

	return 0, fmt.Errorf("not a valid Level: %q", lvl)
}

// Field is one structured key/value pair of a log entry.
type Field struct {
	Key   string
	Value any
}

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err is the "error" field.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// NopLogger discards everything. It is the fallback wherever a nil Logger
// is passed in.
type NopLogger struct{}

// NewNop returns a *NopLogger as a Logger.
//
//nolint:ireturn
func NewNop() Logger { return &NopLogger{} }

func (l *NopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (l *NopLogger) With(...Field) Logger { return l }

//nolint:ireturn
func (l *NopLogger) WithGroup(string) Logger { return l }

func (l *NopLogger) Enabled(Level) bool { return false }

func (l *NopLogger) Sync(context.Context) error { return nil }
