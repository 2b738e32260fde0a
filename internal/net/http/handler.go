package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/raqolbi/hello-api/internal/commons"
	constant "github.com/raqolbi/hello-api/internal/constants"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"go.opentelemetry.io/otel/trace"
)

// ApiResponse is the envelope of the greeting endpoints.
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Root handles GET /.
func Root(c *fiber.Ctx) error {
	return OK(c, ApiResponse{Status: constant.StatusSuccess, Message: constant.MessageHelloWorld})
}

// API handles GET /api.
func API(c *fiber.Ctx) error {
	return OK(c, ApiResponse{Status: constant.StatusSuccess, Message: constant.MessageHelloAPI})
}

// Health handles GET /health. It answers while the server drains too.
func Health(c *fiber.Ctx) error {
	return OK(c, HealthResponse{Status: constant.StatusOK})
}

// FiberErrorHandler is the app-wide fiber error handler. Router errors keep
// their status; anything else is logged and rendered as a 500.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	opentelemetry.HandleSpanError(trace.SpanFromContext(ctx), "handler error", err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return RenderError(c, ErrorResponse{
			Code:    fe.Code,
			Title:   constant.ErrorTitleRequestFailed,
			Message: fe.Message,
		})
	}

	logger := commons.NewLoggerFromContext(ctx)
	logger.Log(ctx, log.LevelError,
		"handler error",
		log.String("method", c.Method()),
		log.String("path", c.Path()),
		log.Err(err),
	)

	return RenderError(c, err)
}
