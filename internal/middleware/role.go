package middleware

import (
	"net/http"

	"oficina/internal/domain"
	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets through callers identified by JWTAuth or OptionalAuth
// whose role is one of roles. Anonymous callers get 401.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.ID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
