package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Respond writes payload as JSON with the given status. Statuses outside the
// valid HTTP range become 500.
func Respond(c *fiber.Ctx, status int, payload any) error {
	if status < http.StatusContinue || status > 599 {
		status = http.StatusInternalServerError
	}

	return c.Status(status).JSON(payload)
}

// RespondError writes an ErrorResponse with the given status, title and message.
func RespondError(c *fiber.Ctx, status int, title, message string) error {
	return Respond(c, status, ErrorResponse{
		Code:    status,
		Title:   title,
		Message: message,
	})
}

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, s any) error {
	return JSONResponse(c, http.StatusOK, s)
}

// JSONResponse sends a custom status code and body as a JSON response.
func JSONResponse(c *fiber.Ctx, status int, s any) error {
	return c.Status(status).JSON(s)
}
