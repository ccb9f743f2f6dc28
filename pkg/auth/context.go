// Package auth provides bot-token authentication and JWT issuance for the
// session API. A bot identity proves itself once with its bot token; the
// service exchanges it for a signed access token carrying the tenant id,
// which the session endpoints then trust.
package auth

import "context"

// contextKey is a private type for context keys.
type contextKey int

const (
	tenantContextKey contextKey = iota
)

// WithTenant adds a verified tenant id to the context.
func WithTenant(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenantID)
}

// TenantFromContext retrieves the verified tenant id from the context.
func TenantFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tenantContextKey).(int64)
	return id, ok
}
