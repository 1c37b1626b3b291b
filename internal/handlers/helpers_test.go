package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/services"
	pkghttp "github.com/BradenHooton/gymcrm/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext attaches a principal for testing authenticated endpoints
func WithAuthContext(req *http.Request, username string) *http.Request {
	ctx := auth.WithPrincipal(req.Context(), &auth.Principal{
		Username:  username,
		TokenID:   "test-jti",
		ExpiresAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, username string, password []byte) (*services.LoginResponse, error)
	LogoutFunc func(ctx context.Context) context.Context
}

func (m *MockAuthService) Login(ctx context.Context, username string, password []byte) (*services.LoginResponse, error) {
	if m.LoginFunc == nil {
		return nil, assert.AnError
	}
	return m.LoginFunc(ctx, username, password)
}

func (m *MockAuthService) Logout(ctx context.Context) context.Context {
	if m.LogoutFunc == nil {
		return auth.ClearPrincipal(ctx)
	}
	return m.LogoutFunc(ctx)
}
