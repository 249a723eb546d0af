package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messagely/internal/middleware"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func usernameFromContext(c *gin.Context) *string {
	if username := middleware.CurrentUsername(c); username != "" {
		return &username
	}
	return nil
}
