package appctx

import (
	"context"

	"rentware/internal/core/id"
)

// Actor identifies the authenticated user performing a request.
// Movements record the actor ID for traceability.
type Actor struct {
	UserID id.ID
	Email  string
	Role   string
}

type actorContextKey struct{}

// WithActor adds the authenticated actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns the actor from context, or nil for anonymous requests.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// ActorID returns the actor's user ID or nil when unauthenticated.
func ActorID(ctx context.Context) *id.ID {
	if a := GetActor(ctx); a != nil && !id.IsNil(a.UserID) {
		uid := a.UserID
		return &uid
	}
	return nil
}
