package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is any dependency with a liveness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	service string
	version string
	deps    map[string]Pinger
}

// NewHealthHandler creates a health handler. deps are checked on every call.
func NewHealthHandler(service, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, version: version, deps: deps}
}

// Check returns 200 when every dependency answers, 503 otherwise
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	checks := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	respondJSON(w, code, map[string]interface{}{
		"status":  status,
		"service": h.service,
		"version": h.version,
		"checks":  checks,
	})
}
