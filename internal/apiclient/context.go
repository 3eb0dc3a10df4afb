package apiclient

import "context"

type contextKey string

const requestIDContextKey contextKey = "request_id"

// ContextWithRequestID makes outbound calls made under ctx reuse the inbound
// request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
