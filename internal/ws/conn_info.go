package ws

import "time"

// ConnInfo describes one websocket connection for lifecycle events.
type ConnInfo struct {
	ConnID      string
	Username    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func (i ConnInfo) payload(event, reason string) map[string]any {
	return map[string]any{
		"ws": map[string]any{
			"event":       event,
			"conn_id":     i.ConnID,
			"duration_ms": time.Since(i.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]any{
			"username": i.Username,
			"ip":       i.IP,
		},
	}
}
