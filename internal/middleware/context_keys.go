package middleware

import "github.com/gin-gonic/gin"

// tenantIDKey is the key used to store the resolved tenant ID in the Gin context.
const tenantIDKey = contextKey("tenantID")

// userIDKey is the key used to store the acting user's ID in the Gin context.
const userIDKey = contextKey("userID")

// GetTenantIDFromContext retrieves the resolved tenant ID from the Gin context.
// It returns the tenant ID and a boolean indicating if it was found.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantVal, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := tenantVal.(string)
	if !ok || tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
