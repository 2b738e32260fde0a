package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/raqolbi/hello-api/internal/commons"
	constant "github.com/raqolbi/hello-api/internal/constants"
	"github.com/raqolbi/hello-api/internal/log"
)

// RequestInfo is one access log entry.
type RequestInfo struct {
	RequestID     string
	Method        string
	URI           string
	Protocol      string
	RemoteAddress string
	Referer       string
	UserAgent     string
	Start         time.Time
	Status        int
	Size          int
	Duration      time.Duration
}

// NewRequestInfo starts an entry for the request in c.
func NewRequestInfo(c *fiber.Ctx) *RequestInfo {
	return &RequestInfo{
		RequestID:     c.Get(constant.HeaderID),
		Method:        c.Method(),
		URI:           c.OriginalURL(),
		Protocol:      string(c.Request().Header.Protocol()),
		RemoteAddress: c.IP(),
		Referer:       orDash(c.Get(constant.HeaderReferer)),
		UserAgent:     orDash(c.Get(constant.HeaderUserAgent)),
		Start:         time.Now().UTC(),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// FinishRequestInfo records what was sent back.
func (r *RequestInfo) FinishRequestInfo(c *fiber.Ctx) {
	r.Duration = time.Since(r.Start)
	r.Status = c.Response().StatusCode()
	r.Size = len(c.Response().Body())
}

// CLFString renders the entry as a Common Log Format line followed by the
// referer and user agent.
// Ref: https://httpd.apache.org/docs/trunk/logs.html#common
func (r *RequestInfo) CLFString() string {
	return fmt.Sprintf("%s - - %s \"%s %s %s\" %d %d %s %s",
		r.RemoteAddress,
		r.Start.Format("[02/Jan/2006:15:04:05 -0700]"),
		r.Method, r.URI, r.Protocol,
		r.Status, r.Size,
		r.Referer, r.UserAgent,
	)
}

func (r *RequestInfo) String() string {
	return r.CLFString()
}

type logMiddleware struct {
	Logger    log.Logger
	skipPaths map[string]struct{}
}

// LogMiddlewareOption configures WithHTTPLogging.
type LogMiddlewareOption func(l *logMiddleware)

// WithCustomLogger sets the logger used for access lines.
func WithCustomLogger(logger log.Logger) LogMiddlewareOption {
	return func(l *logMiddleware) {
		if logger != nil {
			l.Logger = logger
		}
	}
}

// WithSkipPaths adds paths that are never access-logged.
func WithSkipPaths(paths ...string) LogMiddlewareOption {
	return func(l *logMiddleware) {
		for _, p := range paths {
			l.skipPaths[p] = struct{}{}
		}
	}
}

func buildOpts(opts ...LogMiddlewareOption) *logMiddleware {
	mid := &logMiddleware{
		Logger:    log.NewNop(),
		skipPaths: map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(mid)
	}

	return mid
}

// WithHTTPLogging writes one Common Log Format line per request and stores a
// request-scoped logger in the user context. Handler errors are rendered here
// so the logged status is the one the client receives.
func WithHTTPLogging(opts ...LogMiddlewareOption) fiber.Handler {
	mid := buildOpts(opts...)

	return func(c *fiber.Ctx) error {
		if _, skip := mid.skipPaths[c.Path()]; skip {
			return c.Next()
		}

		setRequestHeaderID(c)

		info := NewRequestInfo(c)
		logger := mid.Logger.With(log.String(constant.HeaderID, commons.HeaderIDFromContext(c.UserContext())))

		c.SetUserContext(commons.ContextWithLogger(c.UserContext(), logger))

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		info.FinishRequestInfo(c)

		logger.Log(c.UserContext(), log.LevelInfo, info.CLFString(),
			log.Int("status", info.Status),
			log.Duration("duration", info.Duration),
		)

		return nil
	}
}
