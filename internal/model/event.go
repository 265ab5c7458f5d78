package model

import (
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventTypeEnded EventType = "ended"
)

// SessionEvent is a lifecycle event of a session.
type SessionEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorEvent represents an SSE error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
