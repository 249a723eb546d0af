package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messagely/internal/auth"
	"messagely/internal/repositories"
)

// UserHandler serves user details and per-user message listings.
type UserHandler struct {
	users    *auth.CredentialStore
	messages repositories.MessageRepository
}

func NewUserHandler(users *auth.CredentialStore, messages repositories.MessageRepository) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

// List returns basic info on all users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get returns the detail of :username.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// To lists messages received by :username.
func (h *UserHandler) To(c *gin.Context) {
	msgs, err := h.messages.ListMessagesTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// From lists messages sent by :username.
func (h *UserHandler) From(c *gin.Context) {
	msgs, err := h.messages.ListMessagesFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
