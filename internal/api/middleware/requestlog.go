package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	ownerIDHeader   = "X-Owner-ID"
)

// RequestLog returns Echo middleware that logs requests with structured
// fields, including the owner scope when the request carries one. It
// generates a request ID if none is provided and propagates it through the
// response header and echo context.
//
// Probe endpoints (/healthz, /readyz) are polled constantly; repeated
// successes are suppressed after the first so the log stays readable, while
// probe failures are always logged at Warn.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		probeOK = map[string]bool{}
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status

			fields := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if owner := c.Request().Header.Get(ownerIDHeader); owner != "" {
				fields = append(fields, "owner", owner)
			}

			if path == "/healthz" || path == "/readyz" {
				failed := status >= http.StatusBadRequest

				mu.Lock()
				suppress := !failed && probeOK[path]
				probeOK[path] = !failed
				mu.Unlock()

				if suppress {
					return err
				}
				level := slog.LevelInfo
				if failed {
					level = slog.LevelWarn
				}
				log.Log(c.Request().Context(), level, "request", fields...)
				return err
			}

			log.Info("request", fields...)
			return err
		}
	}
}
