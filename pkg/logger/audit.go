package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types emitted by the login flow
const (
	EventLoginSuccess   = "login_success"
	EventLoginFailure   = "login_failure"
	EventAccountBlocked = "account_blocked"
	EventBlockedAttempt = "blocked_attempt"
	EventLogout         = "logout"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType         string
	Username          string
	IPAddress         string
	UserAgent         string
	Success           bool
	FailureReason     string
	RemainingAttempts *int
	Metadata          map[string]string
}

// AuditLogger provides audit logging functionality
type AuditLogger struct {
	logger *slog.Logger
	env    string
	now    func() time.Time
}

// NewAuditLogger creates a new audit logger. In production usernames are masked.
func NewAuditLogger(logger *slog.Logger, env string) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		env:    env,
		now:    time.Now,
	}
}

// LogAuthAttempt logs authentication attempts. IPAddress and UserAgent
// default to the ClientInfo carried by ctx.
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	if al == nil {
		return
	}

	client, _ := ClientInfoFromContext(ctx)
	if event.IPAddress == "" {
		event.IPAddress = client.IPAddress
	}
	if event.UserAgent == "" {
		event.UserAgent = client.UserAgent
	}

	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}

	if event.Username != "" {
		attrs = append(attrs, UsernameAttr(event.Username, al.env))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if client.Device != "" {
		attrs = append(attrs, slog.String("device", client.Device))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	if event.RemainingAttempts != nil {
		attrs = append(attrs, slog.Int("remaining_attempts", *event.RemainingAttempts))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogLogout logs a session end
func (al *AuditLogger) LogLogout(ctx context.Context, username string) {
	al.LogAuthAttempt(ctx, AuditEvent{
		EventType: EventLogout,
		Username:  username,
		Success:   true,
	})
}
