package middleware

import (
	"settleup-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's user_id and email on the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimSpace(token))
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
