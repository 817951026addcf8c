package ctxutil

import (
	"context"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	requestIDKey ctxKey = "request_id"
)

// SystemActor is the audit username recorded when no actor is present in the
// context (startup bootstrap, CLI imports, background jobs).
const SystemActor = "system"

// WithActor stores the audit actor (username) in the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the audit actor from the context.
// Returns SystemActor if the value is missing, empty, or the wrong type.
func ActorFromCtx(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return SystemActor
	}
	return actor
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
