package core

import (
	"context"
	"sync"
	"time"
)

// Session is a durable, named, ordered message log representing one
// conversation. It is safe for concurrent access.
//
// Contract:
//   - Append preserves insertion order and updates the Updated timestamp
//   - Messages returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of slices/maps for safe divergence
//
// Sessions are created by a ConversationStore on first use of an unknown id
// and are never deleted by the engine.
type Session struct {
	ID       string            `json:"id"`
	Messages []Message         `json:"messages"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata,omitempty"`
	mu       sync.RWMutex
}

// NewSession creates an empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, Messages: []Message{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// Append adds messages to the log in the given order.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msgs...)
	s.Updated = time.Now().UTC()
}

// History returns a defensive copy of the full message log.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// Len returns the current number of messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Messages)
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:       s.ID,
		Messages: make([]Message, len(s.Messages)),
		Created:  s.Created,
		Updated:  s.Updated,
		Metadata: make(map[string]string, len(s.Metadata)),
	}
	copy(clone.Messages, s.Messages)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// ConversationStore persists sessions and their ordered message logs.
//
// LoadOrCreate returns the session for id, creating an empty one if id is
// unknown. An empty id instructs the store to mint a new session id.
//
// Append durably appends messages to the identified session. The append is
// all-or-nothing with respect to a single session: a failure must not leave a
// partially-appended log visible to a subsequent LoadOrCreate.
type ConversationStore interface {
	LoadOrCreate(ctx context.Context, id string) (*Session, error)
	Append(ctx context.Context, sessionID string, msgs ...Message) error
}
