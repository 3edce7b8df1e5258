package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting user in the Gin context.
const actorKey = contextKey("actor")

// DefaultActor is recorded in audit fields when the caller does not identify itself.
const DefaultActor = "system"

// ActorHeader names the header carrying the caller's identity.
const ActorHeader = "X-Actor"

// ActorMiddleware records the caller identity used for audit fields.
// Authentication happens upstream; the header is trusted as-is.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return DefaultActor
	}

	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return DefaultActor
	}

	return actor
}
