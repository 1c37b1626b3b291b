package auth

import (
	"context"
	"time"
)

// contextKey is a custom type for context keys
type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated caller of a single request
type Principal struct {
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// WithPrincipal returns a child context carrying the principal
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the request principal, or nil for anonymous callers
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// ClearPrincipal returns a child context in which the caller is anonymous
func ClearPrincipal(ctx context.Context) context.Context {
	return context.WithValue(ctx, principalContextKey, (*Principal)(nil))
}
