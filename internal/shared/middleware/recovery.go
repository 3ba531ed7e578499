package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
	"library-backend/pkg/logger"
)

// RecoveryMiddleware converts panics into 500 responses instead of
// dropping the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", fmt.Errorf("%v", r))
				response.InternalServerError(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
