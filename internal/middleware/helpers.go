// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetAccountID gets account ID from context or panics
func MustGetAccountID(c *gin.Context) string {
	accountID, exists := GetAccountID(c)
	if !exists {
		panic("account_id not found in context")
	}
	return accountID
}

// MustGetJTI gets JTI from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("account_id")
	return exists
}
