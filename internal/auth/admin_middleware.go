package auth

import (
	"gdsgames/backend/internal/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects anonymous callers.
// It must be used AFTER OptionalAuthMiddleware.
func AuthMiddleware() gin.HandlerFunc {
	return guard(Authenticated())
}

// AdminMiddleware rejects callers without the admin flag.
// It must be used AFTER OptionalAuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return guard(Admin())
}

func guard(req Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := Authorize(CurrentUser(c), req); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}
