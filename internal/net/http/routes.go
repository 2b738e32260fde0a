package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
)

// NewRouter builds the fiber app with its middleware chain and routes.
func NewRouter(logger log.Logger, tl *opentelemetry.Telemetry) (*fiber.App, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	tm, err := NewTelemetryMiddleware(tl)
	if err != nil {
		return nil, fmt.Errorf("telemetry middleware: %w", err)
	}

	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          FiberErrorHandler,
	})

	f.Use(WithRecover(logger))
	f.Use(WithRequestID())
	f.Use(WithCORS())
	f.Use(tm.WithTelemetry())
	f.Use(WithHTTPLogging(WithCustomLogger(logger), WithSkipPaths("/health")))

	RegisterRoutes(f)

	return f, nil
}

// RegisterRoutes mounts the public endpoints on f.
func RegisterRoutes(f fiber.Router) {
	f.Get("/", Root)
	f.Get("/api", API)
	f.Get("/health", Health)
}
