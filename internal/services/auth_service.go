package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/metrics"
	"github.com/BradenHooton/gymcrm/internal/models"
	pkgauth "github.com/BradenHooton/gymcrm/pkg/auth"
	pkglogger "github.com/BradenHooton/gymcrm/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/BradenHooton/gymcrm/internal/services"

// UserRepository defines the credential lookup used by login
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// LoginGuard is the lockout policy consulted by login
type LoginGuard interface {
	CheckIfBlocked(ctx context.Context, username string) error
	RecordFailedAttempt(ctx context.Context, username string) error
	ResetAttempts(ctx context.Context, username string) error
	GetRemainingAttempts(ctx context.Context, username string) (int, error)
}

// TokenIssuer mints bearer tokens
type TokenIssuer interface {
	GenerateToken(username string) (string, error)
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AuthService handles authentication business logic
type AuthService struct {
	users        UserRepository
	guard        LoginGuard
	tokens       TokenIssuer
	timing       *auth.TimingDelay
	logger       *slog.Logger
	auditLogger  *pkglogger.AuditLogger
	metrics      *metrics.Metrics
	env          string
	tracer       trace.Tracer
	compareDummy func(password []byte)
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserRepository,
	guard LoginGuard,
	tokens TokenIssuer,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	m *metrics.Metrics,
	env string,
) *AuthService {
	return &AuthService{
		users:        users,
		guard:        guard,
		tokens:       tokens,
		timing:       timing,
		logger:       logger,
		auditLogger:  auditLogger,
		metrics:      m,
		env:          env,
		tracer:       otel.Tracer(tracerName),
		compareDummy: pkgauth.CompareDummyPassword,
	}
}

// Login authenticates username and returns a bearer token.
// The password buffer is zeroed before Login returns, whatever the outcome.
//
// Errors: *models.AccountBlockedError while the username is blocked,
// *models.InvalidCredentialsError for unknown users, inactive users and wrong
// passwords alike, models.ErrInternalServer for storage or signing failures.
func (s *AuthService) Login(ctx context.Context, username string, password []byte) (*LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer span.End()

	resp, err := pkgauth.WithSecret(password, func(secret []byte) (*LoginResponse, error) {
		return s.login(ctx, username, secret)
	})

	span.SetAttributes(attribute.String("auth.outcome", loginOutcome(err)))
	if err != nil && errors.Is(err, models.ErrInternalServer) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, models.ErrAccountBlocked):
		return metrics.OutcomeBlocked
	case errors.Is(err, models.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}

func (s *AuthService) login(ctx context.Context, username string, password []byte) (*LoginResponse, error) {
	start := time.Now()

	// No ledger key to record against, but the caller still pays the failure cost
	if username == "" {
		s.logger.Warn("login attempt with empty username")
		s.compareDummy(password)
		s.metrics.IncrementLoginAttempt(metrics.OutcomeInvalidCredentials)
		s.timing.WaitFrom(ctx, start, false)
		return nil, &models.InvalidCredentialsError{}
	}

	if err := s.guard.CheckIfBlocked(ctx, username); err != nil {
		var blocked *models.AccountBlockedError
		if errors.As(err, &blocked) {
			s.metrics.IncrementLoginAttempt(metrics.OutcomeBlocked)
			s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
				EventType:     pkglogger.EventBlockedAttempt,
				Username:      username,
				FailureReason: "account_blocked",
			})
			return nil, blocked
		}
		return nil, s.internalError("failed to check block state", err)
	}

	ok, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		return nil, s.internalError("failed to verify credentials", err)
	}
	if !ok {
		return nil, s.handleFailedLogin(ctx, username, start)
	}

	if err := s.guard.ResetAttempts(ctx, username); err != nil {
		return nil, s.internalError("failed to reset login attempts", err)
	}

	token, err := s.tokens.GenerateToken(username)
	if err != nil {
		return nil, s.internalError("failed to generate token", err)
	}

	s.metrics.IncrementLoginAttempt(metrics.OutcomeSuccess)
	s.metrics.IncrementTokensIssued()
	s.logger.Info("user logged in", pkglogger.UsernameAttr(username, s.env))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventLoginSuccess,
		Username:  username,
		Success:   true,
	})

	return &LoginResponse{Token: token, Username: username}, nil
}

// verifyCredentials reports whether password matches an active account.
// Unknown usernames still pay for a bcrypt comparison.
func (s *AuthService) verifyCredentials(ctx context.Context, username string, password []byte) (bool, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrNotFound) {
		s.compareDummy(password)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return false, nil
	}

	// Checked after the comparison so inactive accounts cost the same as wrong passwords
	if !user.IsActive {
		s.logger.Info("login rejected: account inactive", pkglogger.UsernameAttr(username, s.env))
		return false, nil
	}

	return true, nil
}

func (s *AuthService) handleFailedLogin(ctx context.Context, username string, start time.Time) error {
	if err := s.guard.RecordFailedAttempt(ctx, username); err != nil {
		return s.internalError("failed to record failed attempt", err)
	}

	remaining, err := s.guard.GetRemainingAttempts(ctx, username)
	if err != nil {
		return s.internalError("failed to get remaining attempts", err)
	}

	s.metrics.IncrementLoginAttempt(metrics.OutcomeInvalidCredentials)
	s.logger.Info("login failed: invalid credentials",
		pkglogger.UsernameAttr(username, s.env),
		slog.Int("remaining_attempts", remaining))

	eventType := pkglogger.EventLoginFailure
	if remaining == 0 {
		eventType = pkglogger.EventAccountBlocked
	}
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:         eventType,
		Username:          username,
		FailureReason:     "invalid_credentials",
		RemainingAttempts: &remaining,
	})

	s.timing.WaitFrom(ctx, start, false)

	return &models.InvalidCredentialsError{RemainingAttempts: remaining}
}

func (s *AuthService) internalError(msg string, err error) error {
	s.metrics.IncrementLoginAttempt(metrics.OutcomeError)
	s.logger.Error(msg, slog.Any("error", err))
	return models.ErrInternalServer
}

// Logout ends the caller's authentication for the rest of the request.
// Tokens are stateless, so nothing is revoked server side.
func (s *AuthService) Logout(ctx context.Context) context.Context {
	if p := auth.PrincipalFromContext(ctx); p != nil {
		s.logger.Info("user logged out", pkglogger.UsernameAttr(p.Username, s.env))
		s.auditLogger.LogLogout(ctx, p.Username)
	}
	return auth.ClearPrincipal(ctx)
}
