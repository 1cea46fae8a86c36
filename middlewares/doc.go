// Package middlewares holds the request pipeline of the service.
//
// Middleware built on web.Middleware sees the request through web.Context:
//
//   - RequestID stores a request ID in the context and the response header;
//     RequestIDExtractor puts it into every log record.
//   - Logger writes one access-log line per request.
//   - Recover converts panics into *PanicError.
//   - Timeout bounds request handling and reports *TimeoutError.
//
// CORS and RateLimit are plain net/http middleware and go in
// web.WithHTTPMiddleware so they also cover unknown routes:
//
//	app := web.New(
//	    web.WithHTTPMiddleware(
//	        middlewares.CORS(),
//	        middlewares.RateLimit(middlewares.RateLimitConfig{Requests: 100, Window: 15 * time.Minute}),
//	    ),
//	    web.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Logger(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(time.Minute),
//	    ),
//	)
package middlewares
