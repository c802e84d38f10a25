// Package clients provides the HTTP transport for the GitHub REST API.
// It sends already-built requests and hands back raw responses; turning
// statuses into errors is left to the acl package.
package clients

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ctxKeyRequestID is the context key for storing request ID in context.Context.
const ctxKeyRequestID contextKey = "request_id"

// RequestIDFromContext extracts the request ID from context.Context.
// Returns empty string if not set or if ctx is nil.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}

	return ""
}

// ContextWithRequestID stores a request ID in the context. The transport
// sends it as X-Request-ID instead of generating a fresh one.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
