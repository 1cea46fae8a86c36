// Package redis opens go-redis clients from connection URLs.
//
// The client backs the distributed rate limiter and the dispatch dedupe
// cache when REDIS_URL is configured:
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	if err != nil {
//	    return err
//	}
//	app := web.New(
//	    web.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    web.WithShutdownHook(redis.Shutdown(client)),
//	)
package redis
