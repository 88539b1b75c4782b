package session

import (
	"context"
	"testing"

	"github.com/promptweave/promptweave/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.ConversationStore = (*InMemoryStore)(nil)
	_ core.ConversationStore = (*RedisStore)(nil)
)

func TestInMemoryStore_LoadOrCreate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	sess, err := store.LoadOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if sess.ID != "s1" || sess.Len() != 0 {
		t.Fatalf("expected fresh empty session, got %+v", sess)
	}

	minted, err := store.LoadOrCreate(ctx, "")
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if minted.ID == "" {
		t.Error("expected a minted session id for empty input")
	}
}

func TestInMemoryStore_AppendAtomicVisibility(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	err := store.Append(ctx, "s1",
		core.NewMessage(core.RoleUser, "hi"),
		core.NewMessage(core.RoleAssistant, "hello"),
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	sess, err := store.LoadOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if sess.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", sess.Len())
	}
	history := sess.History()
	if history[0].Content != "hi" || history[1].Content != "hello" {
		t.Fatalf("append order not preserved: %+v", history)
	}
}

func TestInMemoryStore_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	sess, _ := store.LoadOrCreate(ctx, "s1")
	sess.Append(core.NewMessage(core.RoleUser, "local only"))

	again, _ := store.LoadOrCreate(ctx, "s1")
	if again.Len() != 0 {
		t.Error("mutating a returned session should not affect the store")
	}
}
