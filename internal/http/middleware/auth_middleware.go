package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// PrincipalKey is the gin context key the authenticated principal is stored
// under.
const PrincipalKey = "principal"

// AuthMiddleware validates the bearer token and resolves the principal from
// its claims alone. There is no per-request store lookup: a role change takes
// effect when the token is reissued, a staleness window bounded by the token
// TTL.
func AuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		principal, err := tokenSvc.Validate(tokenParts[1])
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			case domain.ErrTokenInvalid, domain.ErrTokenMalformed:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token validation failed"})
			}
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	})
}

// CurrentPrincipal returns the principal set by AuthMiddleware, or nil when
// the request is unauthenticated.
func CurrentPrincipal(c *gin.Context) *domain.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}
