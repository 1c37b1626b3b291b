package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/gymcrm/internal/models"
	pkghttp "github.com/BradenHooton/gymcrm/pkg/http"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	ParseClaims(tokenString string) (*models.TokenClaims, error)
}

// Authenticate attaches a Principal to the request context when a valid bearer token is present.
// Missing, malformed, forged or expired tokens leave the request anonymous; they never abort it.
func Authenticate(tokens TokenParser, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ParseClaims(tokenString)
			if err != nil {
				logger.Debug("bearer token rejected, continuing unauthenticated",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			principal := &Principal{
				Username: claims.Username(),
				TokenID:  claims.ID,
			}
			if claims.ExpiresAt != nil {
				principal.ExpiresAt = claims.ExpiresAt.Time
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuthenticated rejects requests that Authenticate left anonymous
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) == nil {
			pkghttp.WriteUnauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
