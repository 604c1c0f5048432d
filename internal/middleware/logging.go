package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request. The client
// key is included when resolved so quota behavior can be traced per caller.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			if c.Request().URL.Path == "/healthz" {
				return err
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			line := "request_id=" + rid + " method=" + c.Request().Method + " path=" + c.Request().URL.Path
			if clientKey := ClientKeyFromContext(c); clientKey != "" {
				line += " client_key=" + clientKey
			}
			log.Printf("%s status=%d latency=%s", line, c.Response().Status, latency)

			return err
		}
	}
}
