package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/runtime"
)

// WithRecover turns handler panics into 500 responses and reports them
// through the runtime panic pipeline.
func WithRecover(logger log.Logger) fiber.Handler {
	if logger == nil {
		logger = log.NewNop()
	}

	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			runtime.HandlePanicValue(c.UserContext(), logger, e, "http", c.Method()+" "+c.Path())
		},
	})
}
