package middleware

import (
	"net/http"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// TenantScoping resolves the tenant for a request from the :tenant_id path
// parameter, falling back to the X-Tenant-ID header, and stores it in the
// Gin context. Requests without a tenant are rejected before any handler
// runs, and a header naming a different tenant than the path is refused
// rather than silently ignored. The acting user is taken from X-User-ID and
// defaults to "system" since authentication lives outside this service.
func TenantScoping() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param("tenant_id")
		if header := c.GetHeader("X-Tenant-ID"); header != "" {
			if tenantID != "" && tenantID != header {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperrors.ErrForbidden.Error() + ": tenant header does not match request path"})
				return
			}
			if tenantID == "" {
				tenantID = header
			}
		}
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "tenant identifier is required"})
			return
		}
		c.Set(string(tenantIDKey), tenantID)

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = "system"
		}
		c.Set(string(userIDKey), userID)

		c.Next()
	}
}
