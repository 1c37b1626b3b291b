package handlers

import (
	"context"
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/gymcrm/pkg/http"
)

// HealthChecker reports storage availability
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Backend string `json:"backend"`
}

// HealthHandler serves liveness for the configured storage backend
type HealthHandler struct {
	checker HealthChecker
	backend string
}

// NewHealthHandler creates a HealthHandler. A nil checker means in-process storage.
func NewHealthHandler(checker HealthChecker, backend string) *HealthHandler {
	return &HealthHandler{checker: checker, backend: backend}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.checker.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy", Storage: "down", Backend: h.backend,
			})
			return
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy", Storage: "up", Backend: h.backend,
	})
}
