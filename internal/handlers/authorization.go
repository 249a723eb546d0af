package handlers

import (
	"github.com/gin-gonic/gin"

	"messagely/internal/middleware"
	"messagely/internal/models"
)

var errUnauthorized = models.NewForbiddenError("Unauthorized")

// canRead allows either party of a message.
func canRead(username string, msg models.MessageDetail) bool {
	return username != "" && (username == msg.FromUser.Username || username == msg.ToUser.Username)
}

// canMarkRead allows only the recipient.
func canMarkRead(username string, msg models.MessageDetail) bool {
	return username != "" && username == msg.ToUser.Username
}

// EnsureCorrectUser rejects requests whose identity differs from :username.
func EnsureCorrectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.CurrentUsername(c)
		if username == "" || username != c.Param("username") {
			respondError(c, errUnauthorized)
			return
		}
		c.Next()
	}
}
