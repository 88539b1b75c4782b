package resource

import (
	"sort"
	"sync"

	"github.com/promptweave/promptweave/core"
)

// InMemoryStore is a volatile core.ResourceStore holding resources in a
// process-local map. It is safe for concurrent access and best suited for
// tests or hosts that assemble resources programmatically. Each returned
// resource is a copy to prevent external mutation of internal state.
type InMemoryStore struct {
	mu        sync.RWMutex
	resources map[core.Kind]map[string]core.Resource
}

// NewInMemoryStore constructs an empty in-memory resource store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{resources: make(map[core.Kind]map[string]core.Resource)}
}

// Put stores a resource, replacing any earlier one of the same kind/name.
func (s *InMemoryStore) Put(res core.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.resources[res.Kind]
	if !ok {
		byName = make(map[string]core.Resource)
		s.resources[res.Kind] = byName
	}
	byName[res.Name] = res
}

// Get implements core.ResourceStore.
func (s *InMemoryStore) Get(kind core.Kind, name string) (*core.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.resources[kind][name]
	if !ok {
		return nil, &core.NotFoundError{Kind: kind, Name: name}
	}
	clone := res
	clone.Metadata = make(map[string]string, len(res.Metadata))
	for k, v := range res.Metadata {
		clone.Metadata[k] = v
	}
	return &clone, nil
}

// List implements core.ResourceStore, returning names sorted for stable output.
func (s *InMemoryStore) List(kind core.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.resources[kind]))
	for name := range s.resources[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
