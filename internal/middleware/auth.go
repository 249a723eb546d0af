package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"messagely/internal/models"
	"messagely/internal/observability"
)

// UsernameKey is the gin context key holding the authenticated username.
const UsernameKey = "username"

// TokenParser resolves a bearer token to the username it was issued for.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// RequireAuth validates the Authorization header and stores the username on
// both the gin context and the request context.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		username, err := tokens.ParseToken(token)
		if err != nil {
			observability.IncAuthAttempt("token", "failure")
			abortUnauthorized(c)
			return
		}

		c.Set(UsernameKey, username)
		c.Request = c.Request.WithContext(observability.WithUsername(c.Request.Context(), username))
		c.Next()
	}
}

// CurrentUsername returns the identity set by RequireAuth, or "".
func CurrentUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	appErr := models.NewForbiddenError("Unauthorized")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": appErr.Message, "status": appErr.Status},
	})
}
