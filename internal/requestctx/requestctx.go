// Package requestctx carries per-request values on a context.Context.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey key = "request_id"
	userIDKey    key = "user_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRequestID generates a new request ID.
func NewRequestID() string {
	return uuid.NewString()
}

// WithUserID records the acting user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the acting user, or "" when the call is anonymous.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
