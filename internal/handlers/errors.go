package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"messagely/internal/models"
)

// respondError renders err as {"error": {"message", "status"}} and aborts.
// Internal errors are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	appErr := models.AsAppError(err)
	if appErr.Kind == models.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"error": gin.H{"message": appErr.Message, "status": appErr.Status},
	})
}
