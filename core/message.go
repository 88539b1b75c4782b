package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message within a session.
type Role string

const (
	// RoleSystem marks assembled instruction content sent to the provider.
	RoleSystem Role = "system"
	// RoleUser marks caller-supplied input.
	RoleUser Role = "user"
	// RoleAssistant marks provider responses.
	RoleAssistant Role = "assistant"
	// RoleMeta marks bookkeeping entries that are never sent to a provider.
	RoleMeta Role = "meta"
)

// Message is one immutable turn in a session's conversation log. After it has
// been appended to a session it must not be mutated.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and UTC timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for messages and sessions.
func NewID() string { return uuid.NewString() }
