package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// RequireRoles gates a handler behind a role requirement. It must run after
// AuthMiddleware; a request whose principal's role is not in the set is
// rejected with 403 before the handler body runs, and the denial is audited.
func RequireRoles(auditLogger domain.AuditLogger, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return gin.HandlerFunc(func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if _, ok := allowed[principal.Role]; !ok {
			auditLogger.LogSecurity(c.Request.Context(), domain.AccessDeniedEvent, ClientFrom(c), map[string]any{
				"actor_id": principal.UserID,
				"role":     principal.Role,
				"path":     c.FullPath(),
				"method":   c.Request.Method,
			})
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	})
}

// RequirePlatformAdmin gates a handler to platform administrators.
func RequirePlatformAdmin(auditLogger domain.AuditLogger) gin.HandlerFunc {
	return RequireRoles(auditLogger, domain.RolePlatformAdmin)
}

// RequireCenterStaff gates a handler to center admins and platform admins.
func RequireCenterStaff(auditLogger domain.AuditLogger) gin.HandlerFunc {
	return RequireRoles(auditLogger, domain.RoleCenterAdmin, domain.RolePlatformAdmin)
}

// RequirePatient gates a handler to patient accounts.
func RequirePatient(auditLogger domain.AuditLogger) gin.HandlerFunc {
	return RequireRoles(auditLogger, domain.RolePatient)
}
