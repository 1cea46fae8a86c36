package middlewares

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	httprateredis "github.com/go-chi/httprate-redis"
	"github.com/redis/go-redis/v9"
)

const RateLimitMessage = "Too many requests, please try again later."

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// Redis shares counters between replicas. Nil keeps them in memory.
	Redis *redis.Client
	// Prefix namespaces Redis keys.
	Prefix   string
	Requests int
	Window   time.Duration
	// TrustProxy keys clients by True-Client-IP, X-Real-IP or
	// X-Forwarded-For instead of the connection address.
	TrustProxy bool
}

// RateLimit limits each client IP to Requests per sliding Window. Rejected
// requests get 429 with a JSON error body and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}

	keyFunc := httprate.KeyByIP
	if cfg.TrustProxy {
		keyFunc = httprate.KeyByRealIP
	}

	opts := []httprate.Option{
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(rateLimited),
	}
	if cfg.Redis != nil {
		opts = append(opts, httprateredis.WithRedisLimitCounter(&httprateredis.Config{
			Client:    cfg.Redis,
			PrefixKey: cfg.Prefix,
		}))
	}

	return httprate.Limit(cfg.Requests, cfg.Window, opts...)
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   RateLimitMessage,
	})
}
