package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/postbox/internal/web"
)

const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Handlers must honor
// cancellation; when one fails after the deadline without writing a
// response, the error becomes a *TimeoutError.
func Timeout(d time.Duration) web.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if err != nil && !c.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", d.String())
				return &TimeoutError{Err: err, Duration: d}
			}
			return err
		}
	}
}
