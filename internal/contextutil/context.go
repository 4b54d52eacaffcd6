package contextutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const TraceIDKey contextKey = "traceID"

// WithTraceID stamps a fresh trace ID onto the context. Called once per
// request at the API boundary.
func WithTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.New().String())
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return "unknown-trace-id"
	}
	return traceID
}
