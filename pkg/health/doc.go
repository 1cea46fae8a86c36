// Package health serves liveness and readiness probes as JSON.
//
// Liveness never fails; it only proves the process answers requests.
// Readiness runs named checks concurrently under a shared timeout:
//
//	r.Get("/api/health", health.LivenessHandler("Server is running"))
//	r.Get("/api/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log)))
package health
