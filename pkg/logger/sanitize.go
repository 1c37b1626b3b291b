package logger

import (
	"log/slog"
	"strings"
)

// SanitizedUsername masks a username for logging, keeping the first and last character
func SanitizedUsername(username string) string {
	runes := []rune(username)
	switch len(runes) {
	case 0:
		return "[empty]"
	case 1, 2:
		return strings.Repeat("*", len(runes))
	default:
		return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
	}
}

// UsernameAttr returns a username attribute, masked in production
func UsernameAttr(username, env string) slog.Attr {
	if env == "production" {
		return slog.String("username", SanitizedUsername(username))
	}
	return slog.String("username", username)
}

// SanitizeQueryString reports whether the query string carries sensitive parameters
// and should be redacted wholesale
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{"password", "token", "secret", "auth", "username"}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
