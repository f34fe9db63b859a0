package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// MsgAdminRequired is returned to authenticated non-admin callers
const MsgAdminRequired = "Admin access required"

// AdminOnlyMiddleware lets only admin principals through.
// It must run after JWTAuthMiddleware, which already re-read the role from the database.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgNoToken})
			return
		}
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": MsgAdminRequired})
			return
		}
		c.Next()
	}
}
