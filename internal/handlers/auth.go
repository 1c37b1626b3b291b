package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/BradenHooton/gymcrm/internal/services"
	pkgauth "github.com/BradenHooton/gymcrm/pkg/auth"
	pkghttp "github.com/BradenHooton/gymcrm/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username string, password []byte) (*services.LoginResponse, error)
	Logout(ctx context.Context) context.Context
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string         `json:"username" validate:"required,max=64"`
	Password pkgauth.Secret `json:"password" validate:"required,min=1,max=72"`
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles user login
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 429 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	defer func() { pkgauth.Scrub(req.Password) }()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	// Validate request
	if err := ValidateRequest(req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "bad_request", ve.Error(), ve.Details())
			return
		}
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var blocked *models.AccountBlockedError
		switch {
		case errors.As(err, &blocked):
			pkghttp.WriteAccountBlocked(w, blocked.Error(), blocked.MinutesRemaining*60)
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteInvalidCredentials(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// Logout ends the caller's session. Tokens are stateless, so the client discards its token.
// @Summary User logout
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if auth.PrincipalFromContext(r.Context()) == nil {
		pkghttp.WriteUnauthorized(w, "authentication required")
		return
	}

	h.service.Logout(r.Context())

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me returns the identity bound to the bearer token
// @Summary Current user
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "authentication required")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MeResponse{
		Username:  principal.Username,
		ExpiresAt: principal.ExpiresAt,
	})
}
