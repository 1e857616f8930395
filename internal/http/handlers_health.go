package httpx

import (
	"context"
	"net/http"
)

// HealthChecker reports the liveness of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler serves GET /healthz. Checks are optional; with none
// configured the endpoint only proves the process is serving.
type HealthHandler struct {
	Checks map[string]HealthChecker
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	out := map[string]string{"status": "ok"}
	for name, check := range h.Checks {
		if err := check.Health(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			out["status"] = "degraded"
			out[name] = err.Error()
		} else {
			out[name] = "ok"
		}
	}
	WriteJSON(w, status, out)
}
