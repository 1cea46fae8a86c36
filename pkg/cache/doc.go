// Package cache provides a small generic TTL cache with an in-memory and a
// Redis backend.
//
// The memory backend suits a single process; the Redis backend shares entries
// between replicas:
//
//	results := cache.NewMemory[mailer.Result](cache.WithDefaultTTL(24 * time.Hour))
//	defer results.Close()
//
//	shared := cache.NewRedis[mailer.Result](client, cache.WithPrefix("postbox:dedupe"))
//
// [GetOrSet] wraps a computation so that concurrent callers with the same key
// share one call and later callers reuse the stored result:
//
//	res, err := cache.GetOrSet(ctx, results, key, func(ctx context.Context) (mailer.Result, time.Duration, error) {
//	    r, err := send(ctx)
//	    return r, 24 * time.Hour, err
//	})
package cache
