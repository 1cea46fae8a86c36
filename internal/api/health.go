package api

import (
	"net/http"

	"github.com/dmitrymomot/postbox/internal/web"
	"github.com/dmitrymomot/postbox/pkg/health"
)

// LivenessMessage is reported by GET /api/health.
const LivenessMessage = "Server is running"

// HealthHandler serves GET /api/health and GET /api/health/ready.
type HealthHandler struct {
	checks health.Checks
	opts   []health.Option
}

// NewHealthHandler creates a HealthHandler. Liveness never runs checks;
// readiness runs all of them.
func NewHealthHandler(checks health.Checks, opts ...health.Option) *HealthHandler {
	return &HealthHandler{checks: checks, opts: opts}
}

// Routes implements web.Handler.
func (h *HealthHandler) Routes(r web.Router) {
	r.Handle(http.MethodGet, "/api/health", health.LivenessHandler(LivenessMessage, h.opts...))
	r.Handle(http.MethodGet, "/api/health/ready", health.ReadinessHandler(h.checks, h.opts...))
}
