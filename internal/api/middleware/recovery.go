package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace with the request's correlation fields, and returns a 500 Internal
// Server Error to the client. The generation pipeline confines its own
// panics per candidate; this is the safety net for everything else the
// server runs.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					fields := []any{
						"error", fmt.Sprint(r),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"stack", string(buf[:n]),
					}
					body := map[string]string{
						"error": "internal server error",
					}
					if reqID, ok := c.Get("request_id").(string); ok && reqID != "" {
						fields = append(fields, "request_id", reqID)
						body["request_id"] = reqID
					}
					if owner := c.Request().Header.Get(ownerIDHeader); owner != "" {
						fields = append(fields, "owner", owner)
					}

					log.Error("panic recovered", fields...)

					err = c.JSON(http.StatusInternalServerError, body)
				}
			}()
			return next(c)
		}
	}
}
