package commons

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/raqolbi/hello-api/internal/log"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	headerIDKey
)

// NewLoggerFromContext returns the request logger stored by
// ContextWithLogger, or a no-op logger.
//
//nolint:ireturn
func NewLoggerFromContext(ctx context.Context) log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(log.Logger); ok && logger != nil {
			return logger
		}
	}

	return log.NewNop()
}

func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// ContextWithHeaderID stores the X-Request-Id of the current request.
func ContextWithHeaderID(ctx context.Context, headerID string) context.Context {
	return context.WithValue(ctx, headerIDKey, strings.TrimSpace(headerID))
}

// HeaderIDFromContext returns the stored request id, or a new UUID when there
// is none.
func HeaderIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(headerIDKey).(string); ok && id != "" {
			return id
		}
	}

	return uuid.New().String()
}
