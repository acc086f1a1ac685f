package service

import (
	"context"

	"vedic_counter/internal/models"
)

type actorKey struct{}

// WithActor tags ctx with the user driving the request.
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the user set by WithActor. Timer ticks and start-up have none.
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(models.Actor)
	return a, ok
}
