package health

import (
	"encoding/json"
	"net/http"
)

// Liveness is the body of a liveness response.
type Liveness struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Success   bool   `json:"success"`
}

// LivenessHandler always responds 200 with message and the current time.
func LivenessHandler(message string, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Liveness{
			Success:   true,
			Message:   message,
			Timestamp: cfg.now().UTC().Format(TimestampFormat),
		})
	}
}

// ReadinessHandler runs checks on every request and responds 200 when all
// pass, 503 otherwise.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		report := run(r.Context(), checks, cfg)

		status := http.StatusOK
		if !report.Success {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
