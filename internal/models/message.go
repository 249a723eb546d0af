package models

import "time"

// Message is a row of the messages table.
type Message struct {
	ID           int64      `db:"id" json:"id"`
	FromUsername string     `db:"from_username" json:"from_username"`
	ToUsername   string     `db:"to_username" json:"to_username"`
	Body         string     `db:"body" json:"body"`
	SentAt       time.Time  `db:"sent_at" json:"sent_at"`
	ReadAt       *time.Time `db:"read_at" json:"read_at"`
}

// MessageDetail is a message with both parties expanded.
type MessageDetail struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// SentMessage is an entry of a user's outgoing messages.
type SentMessage struct {
	ID     int64       `json:"id"`
	ToUser UserSummary `json:"to_user"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
}

// ReceivedMessage is an entry of a user's incoming messages.
type ReceivedMessage struct {
	ID       int64       `json:"id"`
	FromUser UserSummary `json:"from_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}

// ReadReceipt confirms a mark-read call.
type ReadReceipt struct {
	ID     int64     `db:"id" json:"id"`
	ReadAt time.Time `db:"read_at" json:"read_at"`
}

// MessageEvent is pushed over websocket connections.
type MessageEvent struct {
	Type    string       `json:"type"`
	Message *Message     `json:"message,omitempty"`
	Receipt *ReadReceipt `json:"receipt,omitempty"`
}
