package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by a bearer token.
// The username travels in the registered "sub" claim.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// Username returns the token subject
func (c *TokenClaims) Username() string {
	return c.Subject
}
