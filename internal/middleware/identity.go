package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/service"
)

// Context keys set by JWTAuth.
const (
	actorKey  = "actor"
	userIDKey = "user_id"
)

func setActor(c echo.Context, a service.Actor) {
	c.Set(actorKey, a)
	c.Set(userIDKey, strconv.FormatUint(a.ID, 10))
}

// ActorFrom returns the actor stored by JWTAuth.
func ActorFrom(c echo.Context) (service.Actor, bool) {
	a, ok := c.Get(actorKey).(service.Actor)
	return a, ok
}

// userID returns the authenticated user id for rate limit and log keys,
// or "anon" for anonymous requests.
func userID(c echo.Context) string {
	if v, ok := c.Get(userIDKey).(string); ok && v != "" {
		return v
	}
	return "anon"
}
