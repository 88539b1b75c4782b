package testutil

import (
	"context"

	"github.com/promptweave/promptweave/core"
)

// TrackingConversationStore wraps a core.ConversationStore counting calls, so
// tests can assert that failed executions never touch persistence.
type TrackingConversationStore struct {
	Inner       core.ConversationStore
	Loads       int
	Appends     int
	AppendErr   error // when set, Append fails without delegating
	AppendedIDs []string
}

// LoadOrCreate implements core.ConversationStore.
func (s *TrackingConversationStore) LoadOrCreate(ctx context.Context, id string) (*core.Session, error) {
	s.Loads++
	return s.Inner.LoadOrCreate(ctx, id)
}

// Append implements core.ConversationStore.
func (s *TrackingConversationStore) Append(ctx context.Context, sessionID string, msgs ...core.Message) error {
	s.Appends++
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.AppendedIDs = append(s.AppendedIDs, sessionID)
	return s.Inner.Append(ctx, sessionID, msgs...)
}
