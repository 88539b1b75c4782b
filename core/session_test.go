package core

import (
	"errors"
	"testing"
)

func TestSession_AppendAndHistory(t *testing.T) {
	s := NewSession("s1")
	s.Append(NewMessage(RoleUser, "hi"), NewMessage(RoleAssistant, "hello"))

	if s.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", s.Len())
	}

	history := s.History()
	if history[0].Role != RoleUser || history[1].Role != RoleAssistant {
		t.Fatalf("insertion order not preserved: %+v", history)
	}

	orig := history[0].Content
	history[0].Content = "changed"
	if s.History()[0].Content != orig {
		t.Error("message slice should be copied on read")
	}
}

func TestSession_Clone(t *testing.T) {
	s := NewSession("s2")
	s.Metadata["origin"] = "test"
	s.Append(NewMessage(RoleUser, "hi"))

	clone := s.Clone()
	if clone == s {
		t.Error("Clone should be a different pointer")
	}

	clone.Append(NewMessage(RoleAssistant, "hello"))
	clone.Metadata["extra"] = "x"
	if s.Len() != 1 {
		t.Error("original should not see clone's appends")
	}
	if _, exists := s.Metadata["extra"]; exists {
		t.Error("original should not see clone's metadata")
	}
}

func TestNewMessage_IDsUnique(t *testing.T) {
	a := NewMessage(RoleUser, "x")
	b := NewMessage(RoleUser, "x")
	if a.ID == b.ID {
		t.Errorf("expected distinct message IDs, got %s twice", a.ID)
	}
}

func TestProviderError_Timeout(t *testing.T) {
	inner := errors.New("deadline exceeded")
	err := &ProviderError{Provider: "openai", Reason: ProviderReasonTimeout, Err: inner}
	if !err.Timeout() {
		t.Error("expected Timeout() to be true")
	}
	if !errors.Is(err, inner) {
		t.Error("expected ProviderError to unwrap to the inner error")
	}
}
