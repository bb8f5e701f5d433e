package middleware

import (
	"net/http"

	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
)

// ActiveStaff rejects tokens of accounts that were disabled after the token was issued.
// Use after AuthRequired.
func ActiveStaff(staff *repository.StaffRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, err := staff.GetByID(c.Request.Context(), userID)
		if err != nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
			return
		}
		c.Next()
	}
}
