// Package session owns the lifecycle of a chat conversation: an append-only
// transcript and a one-way transition from active to ended.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/excalibur-labs/helios-chat/internal/model"
)

// Session is one conversation. Turns are serialized by turnMu, which is held
// for the whole turn including the wait for a reply; mu guards the fields.
type Session struct {
	ID      string
	OwnerID string

	turnMu sync.Mutex

	mu         sync.RWMutex
	state      model.SessionState
	transcript []model.Message
	createdAt  time.Time
	updatedAt  time.Time
}

// New creates an active session with an empty transcript.
func New(ownerID string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		OwnerID:   ownerID,
		state:     model.SessionActive,
		createdAt: now,
		updatedAt: now,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ended reports whether the session has ended.
func (s *Session) Ended() bool {
	return s.State() == model.SessionEnded
}

// UpdatedAt returns the time of the last append or state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Transcript returns a copy of the messages appended so far.
func (s *Session) Transcript() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// View returns the JSON form of the session.
func (s *Session) View() *model.SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transcript := make([]model.Message, len(s.transcript))
	copy(transcript, s.transcript)
	return &model.SessionView{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		State:      s.state,
		Transcript: transcript,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Session) append(msg model.Message) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = uuid.Must(uuid.NewV7()).String()
	msg.SessionID = s.ID
	msg.CreatedAt = time.Now()
	s.transcript = append(s.transcript, msg)
	s.updatedAt = msg.CreatedAt
	return msg
}

// end moves the session to ended. It reports false if it already was.
func (s *Session) end() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == model.SessionEnded {
		return false
	}
	s.state = model.SessionEnded
	s.updatedAt = time.Now()
	return true
}
