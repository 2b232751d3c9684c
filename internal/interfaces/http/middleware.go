package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/expense-approval/internal/application/service"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// actorContextKey is the gin context key the auth middleware stores the
// resolved actor under.
const actorContextKey = "actor"

// TokenAuthority issues and verifies the bearer tokens carried on API
// requests.
type TokenAuthority interface {
	IssueToken(employee *entity.Employee) (string, error)
	VerifyToken(token string) (*service.Actor, error)
}

// ActorResolver supplies an ambient actor without a token, used by the
// development auth bypass. A nil result means no bypass applies.
type ActorResolver interface {
	Resolve(ctx context.Context) *service.Actor
}

// authMiddleware resolves the acting employee for every API request. The
// bypass resolver wins when configured; otherwise a Bearer token is required.
func (h *Handlers) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.bypass != nil {
			if actor := h.bypass.Resolve(c.Request.Context()); actor != nil {
				c.Set(actorContextKey, *actor)
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing authorization token",
			})
			return
		}

		actor, err := h.authority.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid authorization token",
			})
			return
		}

		c.Set(actorContextKey, *actor)
		c.Next()
	}
}

// actorFrom returns the actor stored by the auth middleware.
func actorFrom(c *gin.Context) (service.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	return actor, ok
}
