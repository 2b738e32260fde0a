package zap

import (
	"context"
	"errors"
	"strings"
	"syscall"
	"time"

	logpkg "github.com/raqolbi/hello-api/internal/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger adapts a *zap.Logger to log.Logger.
type Logger struct {
	base  *zap.Logger
	level zap.AtomicLevel
}

var _ logpkg.Logger = (*Logger)(nil)

var levels = map[logpkg.Level]zapcore.Level{
	logpkg.LevelError: zapcore.ErrorLevel,
	logpkg.LevelWarn:  zapcore.WarnLevel,
	logpkg.LevelInfo:  zapcore.InfoLevel,
	logpkg.LevelDebug: zapcore.DebugLevel,
}

// Messages are rendered as plain text by some collectors, so line breaks and
// tabs are escaped to keep one entry per line (CWE-117).
var messageEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func toZapLevel(level logpkg.Level) zapcore.Level {
	if zl, ok := levels[level]; ok {
		return zl
	}

	return zapcore.InfoLevel
}

func (l *Logger) raw() *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}

	return l.base
}

func (l *Logger) derive(base *zap.Logger) *Logger {
	return &Logger{base: base, level: l.levelOrZero()}
}

func (l *Logger) levelOrZero() zap.AtomicLevel {
	if l == nil {
		return zap.AtomicLevel{}
	}

	return l.level
}

// Log writes msg at level. When ctx carries a sampled or valid span context,
// trace_id and span_id are added.
func (l *Logger) Log(ctx context.Context, level logpkg.Level, msg string, fields ...logpkg.Field) {
	zl := toZapLevel(level)

	ce := l.raw().Check(zl, messageEscaper.Replace(msg))
	if ce == nil {
		return
	}

	zf := toZapFields(fields)

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			zf = append(zf, zap.String("trace_id", sc.TraceID().String()), zap.String("span_id", sc.SpanID().String()))
		}
	}

	ce.Write(zf...)
}

//nolint:ireturn
func (l *Logger) With(fields ...logpkg.Field) logpkg.Logger {
	return l.derive(l.raw().With(toZapFields(fields)...))
}

//nolint:ireturn
func (l *Logger) WithGroup(name string) logpkg.Logger {
	return l.derive(l.raw().With(zap.Namespace(name)))
}

func (l *Logger) Enabled(level logpkg.Level) bool {
	return l.raw().Core().Enabled(toZapLevel(level))
}

// Sync flushes buffered entries. It gives up when ctx is done. Terminals and
// pipes reject fsync; those errors are not reported.
func (l *Logger) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() { done <- l.raw().Sync() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
			return nil
		}

		return err
	}
}

// Level is the runtime-adjustable level shared by this logger and its children.
func (l *Logger) Level() zap.AtomicLevel {
	return l.levelOrZero()
}

func toZapFields(fields []logpkg.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}

	return out
}
