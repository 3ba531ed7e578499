package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/response"
)

// StaffMiddleware allows only librarians and admins through.
// Must run after AuthMiddleware.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(c.GetString(ContextRoleKey))
		if !role.IsStaff() {
			response.Forbidden(c, "Librarian or admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
