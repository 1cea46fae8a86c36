// Command postbox serves the contact form and newsletter subscription API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/postbox/internal/api"
	"github.com/dmitrymomot/postbox/internal/config"
	"github.com/dmitrymomot/postbox/internal/notify"
	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/middlewares"
	"github.com/dmitrymomot/postbox/pkg/cache"
	"github.com/dmitrymomot/postbox/pkg/health"
	"github.com/dmitrymomot/postbox/pkg/logger"
	"github.com/dmitrymomot/postbox/pkg/mailer"
	"github.com/dmitrymomot/postbox/pkg/mailer/resend"
	"github.com/dmitrymomot/postbox/pkg/mailer/ses"
	"github.com/dmitrymomot/postbox/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor())
	defer logger.Flush(2 * time.Second)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	sender, err := newSender(ctx, cfg, log)
	if err != nil {
		return err
	}

	var (
		rdb           *goredis.Client
		checks        = health.Checks{}
		shutdownHooks []web.Option
		dedupe        cache.Cache[mailer.Result]
	)
	if cfg.RedisURL != "" {
		rdb, err = redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		checks["redis"] = redis.Healthcheck(rdb)
		dedupe = cache.NewRedis[mailer.Result](rdb, cache.WithPrefix("postbox:dispatch:"))
		shutdownHooks = append(shutdownHooks, web.WithShutdownHook(redis.Shutdown(rdb)))
	} else {
		mem := cache.NewMemory[mailer.Result](cache.WithDefaultTTL(cfg.Mailer.DedupeTTL))
		dedupe = mem
		shutdownHooks = append(shutdownHooks, web.WithShutdownHook(func(context.Context) error {
			return mem.Close()
		}))
	}

	dispatcherOpts := append(cfg.Mailer.DispatcherOptions(),
		mailer.WithDedupe(dedupe, cfg.Mailer.DedupeTTL),
		mailer.WithDispatcherLogger(log),
	)
	m := mailer.New(
		mailer.NewDispatcher(sender, dispatcherOpts...),
		mailer.NewRenderer(notify.Templates()),
		cfg.Mailer,
	)

	svc := notify.New(m, notify.Config{
		SiteName:           cfg.SiteName,
		AdminEmail:         cfg.AdminEmail,
		ContactSender:      cfg.ContactSender,
		SubscriptionSender: cfg.SubscriptionSender,
		SendReceipt:        cfg.ContactSendReceipt,
	}, notify.WithLogger(log))

	requestIDOpts := []middlewares.RequestIDOption{}
	if cfg.TrustRequestID {
		requestIDOpts = append(requestIDOpts, middlewares.TrustRequestID())
	}

	opts := []web.Option{
		web.WithLogger(log),
		web.WithHTTPMiddleware(
			middlewares.CORS(),
			middlewares.RateLimit(middlewares.RateLimitConfig{
				Redis:      rdb,
				Prefix:     "postbox:ratelimit",
				Requests:   cfg.RateLimitRequests,
				Window:     cfg.RateLimitWindow,
				TrustProxy: cfg.RateLimitTrustProxy,
			}),
		),
		web.WithMiddleware(
			middlewares.RequestID(requestIDOpts...),
			middlewares.Logger(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		web.WithErrorHandler(api.ErrorHandler),
		web.WithNotFoundHandler(api.NotFound),
		web.WithMethodNotAllowedHandler(api.MethodNotAllowed),
		web.WithHandlers(
			api.NewContactHandler(svc),
			api.NewSubscriptionHandler(svc),
			api.NewHealthHandler(checks, health.WithLogger(log)),
		),
		web.WithStartupHook(func(context.Context) error {
			log.Info("postbox started",
				slog.String("addr", cfg.Addr()),
				slog.String("provider", cfg.EmailProvider),
				slog.Bool("redis", rdb != nil),
			)
			return nil
		}),
	}
	opts = append(opts, shutdownHooks...)

	return web.New(opts...).Run(cfg.Addr(), web.ShutdownTimeout(cfg.ShutdownTimeout))
}

func newSender(ctx context.Context, cfg *config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch cfg.EmailProvider {
	case config.ProviderSES:
		s, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.ProviderLog:
		log.Warn("using log email provider, no email will be delivered")
		return mailer.NewLogSender(log), nil
	default:
		return resend.New(cfg.Resend), nil
	}
}
