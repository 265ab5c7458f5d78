// Package model defines data structures shared by the chat core and its HTTP boundary.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a session transcript. It is never changed once
// appended.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Outcome of the model turn (empty for user messages)
	Refused   bool   `json:"refused,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Failure   string `json:"failure,omitempty"`
	Farewell  bool   `json:"farewell,omitempty"`
}

// ChatRequest is the body of POST /chat and of session message posts.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the display text for one turn.
type ChatResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the body of every client or server error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UsageResponse reports the length limits applied to replies and the
// generation backend that produces them.
type UsageResponse struct {
	Info    string       `json:"info"`
	Limits  UsageLimits  `json:"limits"`
	Backend UsageBackend `json:"backend"`
}

// UsageBackend names the provider, the configured model (empty means the
// provider default) and the models the provider accepts.
type UsageBackend struct {
	Provider string   `json:"provider"`
	Model    string   `json:"model,omitempty"`
	Models   []string `json:"models"`
}

// UsageLimits are the two independent reply length limits.
type UsageLimits struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	MaxWords        int     `json:"maxWords"`
	Temperature     float64 `json:"temperature"`
}

// Reply is the outcome of one generated (or refused) turn.
type Reply struct {
	Text      string `json:"text"`
	Refused   bool   `json:"refused,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Failure   string `json:"failure,omitempty"`
}
