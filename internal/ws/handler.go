package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messagely/internal/middleware"
	"messagely/internal/observability"
	"messagely/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated clients and keeps them registered in the hub.
type Handler struct {
	hub    *Hub
	tokens middleware.TokenParser
	events *telemetry.Events
}

func NewHandler(hub *Hub, tokens middleware.TokenParser, events *telemetry.Events) *Handler {
	return &Handler{hub: hub, tokens: tokens, events: events}
}

// Handle authenticates from ?token= or the Authorization header, then upgrades.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messagely/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()

	token := c.Query("token")
	if token == "" {
		token, _ = middleware.BearerToken(c.GetHeader("Authorization"))
	}
	username, err := h.tokens.ParseToken(token)
	if token == "" || err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized", "status": http.StatusUnauthorized}})
		return
	}
	ctx = observability.WithUsername(ctx, username)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		Username:    username,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromContext(ctx),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conn, info)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.events.Connection(ctx, "ws_connect", info.payload("ws_connect", ""))

	// the request context ends with the handler; lifecycle events after that
	// carry only the values copied here
	eventCtx := observability.WithRequestID(observability.WithUsername(context.Background(), username), info.RequestID)
	go h.readLoop(eventCtx, conn, info)
}

// readLoop discards client frames until the connection fails.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		if h.hub.RemoveClient(info.Username, conn) {
			observability.DecWSActive()
		}
		observability.IncWSEvent("ws_disconnect")
		h.events.Connection(ctx, "ws_disconnect", info.payload("ws_disconnect", closeReason))
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				h.events.Connection(ctx, "ws_error", info.payload("ws_error", closeReason))
			}
			return
		}
	}
}
