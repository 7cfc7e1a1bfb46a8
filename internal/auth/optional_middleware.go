package auth

import (
	"gdsgames/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// OptionalAuthMiddleware resolves the caller from the session cookie or a
// bearer token and stores the user in the context. It never fails the
// request: an unresolvable token leaves the caller anonymous.
func (a *Authority) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := a.Resolve(c.Request.Context(), tokenFromRequest(c)); ok {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the caller resolved by OptionalAuthMiddleware, or nil
// for anonymous callers.
func CurrentUser(c *gin.Context) *models.UserView {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(models.UserView)
	if !ok {
		return nil
	}
	return &user
}
