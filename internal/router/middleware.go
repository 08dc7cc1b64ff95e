package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swara2402/Trenzy/pkg/global"
)

// IdentityMiddleware lifts the caller's identity off the X-User-ID header.
// Identity verification itself lives upstream; this service only needs a
// stable user id to scope orders by.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	}
}

// RequireUser guards routes that make no sense without a signed-in user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userId") == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Sign in required", []global.ValidationError{
				{Field: "X-User-ID", Message: "X-User-ID header is required", Code: "unauthorized"},
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}
