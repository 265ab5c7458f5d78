package model

import (
	"time"
)

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	SessionActive SessionState = "active"
	SessionEnded  SessionState = "ended"
)

// SessionView is the JSON form of a session.
type SessionView struct {
	ID         string       `json:"id"`
	OwnerID    string       `json:"owner_id,omitempty"`
	State      SessionState `json:"state"`
	Transcript []Message    `json:"transcript"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// TurnResponse lists the messages one turn appended.
type TurnResponse struct {
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	Messages  []Message    `json:"messages"`
}
