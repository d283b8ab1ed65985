package httputil

import (
	"context"
	"net/http"

	"plaza/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	actorKey contextKey = "actor"
)

// WithActor adds the authenticated actor to the request context
func WithActor(r *http.Request, actor *models.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), actorKey, actor)
	return r.WithContext(ctx)
}

// GetActor retrieves the actor from context, returns nil if not found
func GetActor(r *http.Request) *models.Actor {
	actor, _ := r.Context().Value(actorKey).(*models.Actor)
	return actor
}

// GetUserID retrieves the authenticated user ID from context, returns
// empty string if not found
func GetUserID(r *http.Request) string {
	if actor := GetActor(r); actor != nil {
		return actor.ID
	}
	return ""
}
