package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking backend health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not configured.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe. It returns 200 while the process is up,
// with no dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe. Both storage backends down means not
// ready; one down is still ready because the gateway falls back.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthyBackends := 0
	configured := 0

	check := func(name string, hc HealthChecker) {
		if hc == nil {
			checks[name] = "not configured"
			return
		}
		configured++
		if err := hc.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			return
		}
		checks[name] = "ok"
		healthyBackends++
	}

	check("postgres", h.db)
	check("redis", h.cache)

	status := "ok"
	statusCode := http.StatusOK
	switch {
	case configured == 0:
		// In-memory only deployments are always ready.
	case healthyBackends == 0:
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case healthyBackends < configured:
		status = "degraded"
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
