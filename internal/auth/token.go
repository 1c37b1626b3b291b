package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum signing secret size in bytes (256 bits for HS256)
const MinSecretLength = 32

// DefaultTokenTTL is the bearer token lifetime when none is configured
const DefaultTokenTTL = 3600000 * time.Millisecond

// TokenService issues and verifies HS256 bearer tokens bound to a username.
// The secret is read-only after construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenService
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and validating tokens
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a TokenService, rejecting weak secrets
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes (got %d)", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive (got %s)", ttl)
	}

	ts := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts, nil
}

// TTL returns the configured token lifetime
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// GenerateToken mints a signed token whose subject is the username
func (ts *TokenService) GenerateToken(username string) (string, error) {
	now := ts.now()

	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseClaims verifies signature and expiry and returns the claims.
// Errors wrap models.ErrExpiredToken or models.ErrInvalidToken.
func (ts *TokenService) ParseClaims(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, ts.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", models.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", models.ErrInvalidToken)
	}

	return claims, nil
}

// GetUsernameFromToken returns the token subject, propagating any validation error
func (ts *TokenService) GetUsernameFromToken(tokenString string) (string, error) {
	claims, err := ts.ParseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username(), nil
}

// ValidateToken reports whether the token is authentic and unexpired. It never fails loudly.
func (ts *TokenService) ValidateToken(tokenString string) bool {
	_, err := ts.ParseClaims(tokenString)
	return err == nil
}

// IsTokenExpired reports whether the token's expiry has passed.
// Tokens that cannot be parsed count as expired.
func (ts *TokenService) IsTokenExpired(tokenString string) bool {
	claims := &models.TokenClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, ts.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}

	return !ts.now().Before(claims.ExpiresAt.Time)
}

func (ts *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ts.secret, nil
}
