package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gearhub/gearhub-backend/models"
)

// AdminMiddleware gates a route group to admin users. Runs after
// AuthMiddleware, which stores the caller's role from the token claims.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}
