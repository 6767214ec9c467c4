package middleware

import (
	"net/http"
	"strings"

	"oficina/internal/domain"
	"oficina/internal/pkg/jwt"
	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxEmail  = "email"
)

// JWTAuth requires a valid bearer token and stores the caller on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				setCaller(c, claims)
			}
		}
		c.Next()
	}
}

// CallerFrom returns the identity set by JWTAuth or OptionalAuth. ID is 0 for
// anonymous requests.
func CallerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		ID:    c.GetInt64(ctxUserID),
		Role:  domain.UserRole(c.GetString(ctxRole)),
		Email: c.GetString(ctxEmail),
	}
}

func setCaller(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxEmail, claims.Email)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
