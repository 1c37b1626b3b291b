package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "gymcrm-test-secret-0123456789abcdef"

// fakeClock is a settable time source
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTokenService(t *testing.T, clock *fakeClock) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(testSecret, time.Hour, auth.WithClock(clock.Now))
	require.NoError(t, err)
	return ts
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := auth.NewTokenService(strings.Repeat("x", 31), time.Hour)
	assert.Error(t, err)

	_, err = auth.NewTokenService(strings.Repeat("x", 32), time.Hour)
	assert.NoError(t, err)
}

func TestNewTokenService_RejectsNonPositiveTTL(t *testing.T) {
	_, err := auth.NewTokenService(testSecret, 0)
	assert.Error(t, err)
}

func TestDefaultTokenTTL_IsOneHour(t *testing.T) {
	assert.Equal(t, time.Hour, auth.DefaultTokenTTL)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	token, err := ts.GenerateToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := ts.GetUsernameFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.True(t, ts.ValidateToken(token))
	assert.False(t, ts.IsTokenExpired(token))
}

func TestGenerateToken_Claims(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	token, err := ts.GenerateToken("alice")
	require.NoError(t, err)

	claims, err := ts.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, clock.now.Equal(claims.IssuedAt.Time))
	assert.True(t, clock.now.Add(time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestGenerateToken_UniqueTokenIDs(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	first, err := ts.GenerateToken("alice")
	require.NoError(t, err)
	second, err := ts.GenerateToken("alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestExpiredToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	token, err := ts.GenerateToken("alice")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	assert.NotPanics(t, func() {
		assert.False(t, ts.ValidateToken(token))
	})
	assert.True(t, ts.IsTokenExpired(token))

	_, err = ts.GetUsernameFromToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExpiredToken))
	assert.False(t, errors.Is(err, models.ErrInvalidToken))
}

func TestExpiryBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	token, err := ts.GenerateToken("alice")
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	assert.True(t, ts.ValidateToken(token))

	clock.Advance(time.Second)
	assert.False(t, ts.ValidateToken(token))
	assert.True(t, ts.IsTokenExpired(token))
}

func TestMalformedToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	for _, garbage := range []string{"", "not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		assert.False(t, ts.ValidateToken(garbage), "ValidateToken(%q)", garbage)
		assert.True(t, ts.IsTokenExpired(garbage), "IsTokenExpired(%q)", garbage)

		_, err := ts.GetUsernameFromToken(garbage)
		assert.ErrorIs(t, err, models.ErrInvalidToken, "GetUsernameFromToken(%q)", garbage)
	}
}

func TestForeignSignature(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	other, err := auth.NewTokenService(strings.Repeat("z", 40), time.Hour, auth.WithClock(clock.Now))
	require.NoError(t, err)

	forged, err := other.GenerateToken("mallory")
	require.NoError(t, err)

	assert.False(t, ts.ValidateToken(forged))
	assert.True(t, ts.IsTokenExpired(forged))
	_, err = ts.GetUsernameFromToken(forged)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	claims := jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, ts.ValidateToken(unsigned))
}

func TestRejectsMissingSubject(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ts.GetUsernameFromToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestRejectsMissingExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	claims := jwt.RegisteredClaims{Subject: "alice"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.False(t, ts.ValidateToken(token))
	assert.True(t, ts.IsTokenExpired(token))
}
