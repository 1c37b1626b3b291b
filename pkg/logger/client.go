package logger

import "context"

// ClientInfo describes the caller behind a request
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Device    string
}

type clientInfoKey struct{}

// WithClientInfo returns a context carrying info for audit entries
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext returns the ClientInfo stored by WithClientInfo
func ClientInfoFromContext(ctx context.Context) (ClientInfo, bool) {
	info, ok := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info, ok
}
