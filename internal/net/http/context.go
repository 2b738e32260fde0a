package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/raqolbi/hello-api/internal/commons"
	constant "github.com/raqolbi/hello-api/internal/constants"
)

// WithRequestID makes sure every request carries an X-Request-Id, echoing a
// caller-supplied one or generating a UUID, and stores it in the user context.
func WithRequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setRequestHeaderID(c)

		return c.Next()
	}
}

func setRequestHeaderID(c *fiber.Ctx) {
	headerID := strings.TrimSpace(c.Get(constant.HeaderID))

	if headerID == "" {
		headerID = uuid.New().String()
		c.Request().Header.Set(constant.HeaderID, headerID)
	}

	c.Set(constant.HeaderID, headerID)
	c.SetUserContext(commons.ContextWithHeaderID(c.UserContext(), headerID))
}
