package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	constant "github.com/raqolbi/hello-api/internal/constants"
)

// ErrorResponse is the body of every error the service returns.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Error allows ErrorResponse to satisfy the error interface.
func (e ErrorResponse) Error() string {
	return e.Message
}

// RenderError writes all transport errors through a single, stable contract.
func RenderError(ctx *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var presp *ErrorResponse
	if errors.As(err, &presp) && presp != nil {
		return renderErrorResponse(ctx, *presp)
	}

	var responseErr ErrorResponse
	if errors.As(err, &responseErr) {
		return renderErrorResponse(ctx, responseErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return RespondError(ctx, fiberErr.Code, constant.ErrorTitleRequestFailed, fiberErr.Message)
	}

	return RespondError(ctx, fiber.StatusInternalServerError, constant.ErrorTitleRequestFailed, "An internal error occurred")
}

func renderErrorResponse(ctx *fiber.Ctx, resp ErrorResponse) error {
	status := fiber.StatusInternalServerError

	if resp.Code >= http.StatusContinue && resp.Code <= 599 {
		status = resp.Code
	}

	title := resp.Title
	if title == "" {
		title = constant.ErrorTitleRequestFailed
	}

	message := resp.Message
	if message == "" {
		message = http.StatusText(status)
	}

	return RespondError(ctx, status, title, message)
}
