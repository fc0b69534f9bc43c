package logging

import "context"

type contextKey string

const (
	toastIDKey   contextKey = "toast_id"
	requestIDKey contextKey = "request_id"
)

// WithToastID adds a toast ID to the context.
func WithToastID(ctx context.Context, toastID string) context.Context {
	return context.WithValue(ctx, toastIDKey, toastID)
}

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetToastID retrieves the toast ID from the context.
// Returns empty string if not present.
func GetToastID(ctx context.Context) string {
	if id, ok := ctx.Value(toastIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
