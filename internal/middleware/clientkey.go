package middleware

import (
	"github.com/labstack/echo/v4"
)

// ClientKey resolves the caller identity used to scope submission quotas and
// drafts. Browsers send a stable X-Client-ID; anything else falls back to the
// remote address so anonymous callers still get a per-origin window.
func ClientKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-Client-ID")
			if key == "" {
				key = c.RealIP()
			}
			c.Set(ContextKeyClientKey, key)
			return next(c)
		}
	}
}

// ClientKeyFromContext extracts the resolved client key.
func ClientKeyFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyClientKey).(string); ok {
		return val
	}
	return ""
}
