package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elmanzah/reservation-app/models"
	"github.com/elmanzah/reservation-app/utils"
)

// RequireAdmin allows ADMIN and SUPER_ADMIN sessions through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if role != models.RoleAdmin && role != models.RoleSuperAdmin {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin restricts user management to SUPER_ADMIN sessions.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if role != models.RoleSuperAdmin {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("super admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
