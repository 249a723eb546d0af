package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messagely/internal/middleware"
	"messagely/internal/models"
	"messagely/internal/observability"
	"messagely/internal/repositories"
	"messagely/internal/telemetry"
)

// Notifier pushes message activity to connected clients.
type Notifier interface {
	NotifyMessage(ctx context.Context, msg models.Message)
	NotifyRead(ctx context.Context, sender string, receipt models.ReadReceipt)
}

// MessageHandler serves the message endpoints.
type MessageHandler struct {
	messages repositories.MessageRepository
	notifier Notifier
	events   *telemetry.Events
}

// NewMessageHandler builds a MessageHandler. notifier and events may be nil.
func NewMessageHandler(messages repositories.MessageRepository, notifier Notifier, events *telemetry.Events) *MessageHandler {
	return &MessageHandler{messages: messages, notifier: notifier, events: events}
}

// Get returns one message to either of its parties.
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	msg, err := h.messages.GetMessage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canRead(middleware.CurrentUsername(c), msg) {
		respondError(c, errUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

type sendRequest struct {
	ToUsername string `json:"to_username" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// Send stores a message from the authenticated user. A from_username in the
// body is ignored.
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("to_username and body are required"))
		return
	}

	ctx := c.Request.Context()
	msg, err := h.messages.CreateMessage(ctx, middleware.CurrentUsername(c), req.ToUsername, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.IncMessageEvent("sent")
	h.events.MessageSent(ctx, msg)
	if h.notifier != nil {
		h.notifier.NotifyMessage(ctx, msg)
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkRead sets read_at on a message addressed to the authenticated user.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	msg, err := h.messages.GetMessage(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canMarkRead(middleware.CurrentUsername(c), msg) {
		respondError(c, errUnauthorized)
		return
	}

	receipt, err := h.messages.MarkRead(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.IncMessageEvent("read")
	h.events.MessageRead(ctx, msg, receipt)
	if h.notifier != nil {
		h.notifier.NotifyRead(ctx, msg.FromUser.Username, receipt)
	}
	c.JSON(http.StatusOK, gin.H{"message": receipt})
}

func messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, models.NewValidationError("invalid message id"))
		return 0, false
	}
	return id, true
}
