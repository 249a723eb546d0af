package telemetry

import (
	"context"
	"log/slog"
	"time"

	"messagely/internal/models"
	"messagely/internal/observability"
)

// Routing keys for domain events.
const (
	RoutingUserRegistered = "users.registered"
	RoutingMessageSent    = "messages.sent"
	RoutingMessageRead    = "messages.read"
	RoutingWSEvents       = "ws_events.users"
	RoutingAudit          = "audit.messagely"
)

// EventEnvelope wraps every domain event put on the exchange.
type EventEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	EventName     string `json:"event_name"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	RequestID     string `json:"request_id,omitempty"`
	Payload       any    `json:"payload"`
}

// Events publishes domain events. A nil *Events is a valid no-op.
type Events struct {
	publisher Publisher
	service   string
}

func NewEvents(publisher Publisher, service string) *Events {
	return &Events{publisher: publisher, service: service}
}

func (e *Events) UserRegistered(ctx context.Context, user models.UserDetail) {
	e.publish(ctx, RoutingUserRegistered, "user_events", "user_registered", map[string]any{
		"username": user.Username,
		"join_at":  user.JoinAt,
	})
}

func (e *Events) MessageSent(ctx context.Context, msg models.Message) {
	e.publish(ctx, RoutingMessageSent, "message_events", "message_sent", map[string]any{
		"id":            msg.ID,
		"from_username": msg.FromUsername,
		"to_username":   msg.ToUsername,
		"sent_at":       msg.SentAt,
	})
}

func (e *Events) MessageRead(ctx context.Context, msg models.MessageDetail, receipt models.ReadReceipt) {
	e.publish(ctx, RoutingMessageRead, "message_events", "message_read", map[string]any{
		"id":            receipt.ID,
		"from_username": msg.FromUser.Username,
		"to_username":   msg.ToUser.Username,
		"read_at":       receipt.ReadAt,
	})
}

// Connection publishes websocket lifecycle events.
func (e *Events) Connection(ctx context.Context, name string, payload map[string]any) {
	e.publish(ctx, RoutingWSEvents, "ws_events", name, payload)
}

func (e *Events) publish(ctx context.Context, routingKey, eventType, eventName string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		EventName:     eventName,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		RequestID:     observability.RequestIDFromContext(ctx),
		Payload:       payload,
	}
	if err := e.publisher.Publish(ctx, routingKey, envelope); err != nil {
		slog.WarnContext(ctx, "event publish failed", "routing_key", routingKey, "error", err)
	}
}
