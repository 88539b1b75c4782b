package session

import (
	"context"
	"sync"

	"github.com/promptweave/promptweave/core"
)

// InMemoryStore is a volatile core.ConversationStore keeping sessions in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Each returned session is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// LoadOrCreate returns a clone of the session for id, creating an empty one
// lazily. An empty id mints a new session id.
func (s *InMemoryStore) LoadOrCreate(_ context.Context, id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = core.NewID()
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = core.NewSession(id)
		s.sessions[id] = sess
	}
	return sess.Clone(), nil
}

// Append adds messages to the identified session in one step. All messages
// become visible together; the store never exposes a partial append.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = core.NewSession(sessionID)
		s.sessions[sessionID] = sess
	}
	sess.Append(msgs...)
	return nil
}
