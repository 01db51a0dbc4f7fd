// Package auth carries authenticated identity through requests: token
// issuance and verification, and the gin middleware that puts the
// acting user on the request context. The actor's role always comes
// from the verified token, never from request payloads.
package auth

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"solarline/solar-portal-backend/pkg/workflow"
)

const actorKey = "auth.actor"

// Actor is the authenticated user performing a request.
type Actor struct {
	ID   primitive.ObjectID
	Role workflow.Role
}

// SetActor stores the actor on the request context.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor set by the auth middleware.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// MustActor returns the actor; it panics if the route was registered
// without RequireAuth, which is a wiring bug.
func MustActor(c *gin.Context) Actor {
	actor, ok := ActorFrom(c)
	if !ok {
		panic("auth: no actor on context; route missing RequireAuth")
	}
	return actor
}
