package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logging writes one structured line per HTTP request and attaches a request
// scoped logger to the request context for handlers to use.
func Logging(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqLog := base.With().Str("request_id", RequestIDFromContext(c)).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(reqLog.WithContext(req.Context())))

			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := reqLog.Info()
			if status >= 500 {
				event = reqLog.Error()
			} else if status >= 400 {
				event = reqLog.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", latency).
				Msg("request")

			return err
		}
	}
}
