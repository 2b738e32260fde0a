package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/raqolbi/hello-api/internal/commons"
)

const (
	defaultAccessControlAllowOrigin   = "*"
	defaultAccessControlAllowMethods  = "GET, OPTIONS"
	defaultAccessControlAllowHeaders  = "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-Id"
	defaultAccessControlExposeHeaders = "X-Request-Id"
)

// WithCORS enables CORS from the ACCESS_CONTROL_* environment variables.
// Credentials are only allowed for an explicit origin list.
func WithCORS() fiber.Handler {
	origins := commons.GetenvOrDefault("ACCESS_CONTROL_ALLOW_ORIGIN", defaultAccessControlAllowOrigin)

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     commons.GetenvOrDefault("ACCESS_CONTROL_ALLOW_METHODS", defaultAccessControlAllowMethods),
		AllowHeaders:     commons.GetenvOrDefault("ACCESS_CONTROL_ALLOW_HEADERS", defaultAccessControlAllowHeaders),
		ExposeHeaders:    commons.GetenvOrDefault("ACCESS_CONTROL_EXPOSE_HEADERS", defaultAccessControlExposeHeaders),
		AllowCredentials: origins != defaultAccessControlAllowOrigin,
	})
}
