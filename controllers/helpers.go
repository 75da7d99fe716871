package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated Clerk user ID out of the gin
// context. The auth middleware sets it; a missing value means the route
// was wired without authentication.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "User authentication required",
		})
		return "", false
	}
	return userID, true
}
