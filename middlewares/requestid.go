package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

type requestIDKey struct{}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	generator func() string
	trust     bool
}

// WithRequestIDGenerator replaces the UUIDv4 generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(c *requestIDConfig) {
		if gen != nil {
			c.generator = gen
		}
	}
}

// TrustRequestID reuses an incoming X-Request-ID header when it is printable
// ASCII of at most 128 bytes.
func TrustRequestID() RequestIDOption {
	return func(c *requestIDConfig) { c.trust = true }
}

// RequestID stores a request ID in the context and echoes it in the
// X-Request-ID response header.
func RequestID(opts ...RequestIDOption) web.Middleware {
	cfg := &requestIDConfig{generator: uuid.NewString}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			id := ""
			if cfg.trust {
				if v := c.Header(RequestIDHeader); validRequestID(v) {
					id = v
				}
			}
			if id == "" {
				id = cfg.generator()
			}

			c.Set(requestIDKey{}, id)
			c.SetHeader(RequestIDHeader, id)

			return next(c)
		}
	}
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds request_id to every log record written with a
// request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := RequestIDFromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
