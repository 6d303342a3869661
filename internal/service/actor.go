package service

import "context"

type actorKey struct{}

// SystemActor is recorded for changes not triggered by a signed-in user.
const SystemActor = "system"

// WithActor returns a context carrying the id of the user performing the request.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the actor stored by WithActor, or "" when there is none.
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
