package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/postbox/internal/web"
)

// Logger logs one line per request with method, path, status and duration.
// Place it after RequestID so the line carries the request ID.
func Logger() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			start := time.Now()
			err := next(c)

			status := http.StatusOK
			if rw, ok := c.Response().(*web.ResponseWriter); ok {
				status = rw.Status()
			}
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if he, ok := web.AsHTTPError(err); ok {
					status = he.Code
				}
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			c.Logger().Log(c.Context(), level, "http request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)

			return err
		}
	}
}
