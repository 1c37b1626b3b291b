package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(ctx context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name        string
		checker     HealthChecker
		backend     string
		wantStatus  int
		wantHealth  string
		wantStorage string
	}{
		{"memory backend", nil, "memory", http.StatusOK, "healthy", "up"},
		{"postgres up", stubChecker{}, "postgres", http.StatusOK, "healthy", "up"},
		{"postgres down", stubChecker{err: errors.New("timeout")}, "postgres", http.StatusServiceUnavailable, "unhealthy", "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, tt.backend)
			w := httptest.NewRecorder()

			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			var resp HealthResponse
			AssertJSONResponse(t, w, tt.wantStatus, &resp)
			assert.Equal(t, tt.wantHealth, resp.Status)
			assert.Equal(t, tt.wantStorage, resp.Storage)
			assert.Equal(t, tt.backend, resp.Backend)
		})
	}
}
