package logger

import "context"

// contextKey is an unexported type for keys in context
type contextKey struct{}

var requestIDKey = contextKey{}

// RequestIDKey is the log field holding the request id.
const RequestIDKey = "request_id"

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
