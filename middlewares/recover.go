package middlewares

import (
	"net/http"
	"runtime"

	"github.com/dmitrymomot/postbox/internal/web"
)

const defaultStackSize = 4 << 10

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize int
}

// WithStackSize caps the captured stack trace. Zero disables capture.
func WithStackSize(n int) RecoverOption {
	return func(c *recoverConfig) { c.stackSize = n }
}

// Recover turns panics in later handlers into *PanicError values for the
// app error handler. http.ErrAbortHandler is re-panicked.
func Recover(opts ...RecoverOption) web.Middleware {
	cfg := &recoverConfig{stackSize: defaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				var stack []byte
				if cfg.stackSize > 0 {
					stack = make([]byte, cfg.stackSize)
					stack = stack[:runtime.Stack(stack, false)]
				}

				c.LogError("panic recovered", "panic", r, "stack", string(stack))
				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}
