package middleware

import (
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	pkglogger "github.com/BradenHooton/gymcrm/pkg/logger"
	"github.com/mssola/useragent"
)

const maxUserAgentLength = 256

// ClientInfo records the caller's address and device on the request context
// so audit entries can include them. Run it after chi's RealIP.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		userAgent := truncateUTF8(r.UserAgent(), maxUserAgentLength)

		ctx := pkglogger.WithClientInfo(r.Context(), pkglogger.ClientInfo{
			IPAddress: ip,
			UserAgent: userAgent,
			Device:    DeviceName(userAgent),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// DeviceName turns a User-Agent into "Browser on OS", e.g. "Chrome on Linux"
func DeviceName(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
