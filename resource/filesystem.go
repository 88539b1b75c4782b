package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/promptweave/promptweave/core"
	"gopkg.in/yaml.v3"
)

// FilesystemStore reads an authored resource tree:
//
//	<root>/patterns/<name>/system.md   (or <root>/patterns/<name>.md)
//	<root>/strategies/<name>.yaml
//	<root>/contexts/<name>.md
//
// Pattern and context files may start with a YAML front matter block
// (delimited by "---" lines) that populates Resource.Metadata. Strategy files
// are YAML documents with a required "prompt" field and a "description" field
// surfaced through Metadata for listing tools.
//
// Parsed resources are cached; the cache is refreshed only by an explicit
// Reload, never by background polling.
type FilesystemStore struct {
	root  string
	mu    sync.RWMutex
	cache map[cacheKey]*core.Resource
}

type cacheKey struct {
	kind core.Kind
	name string
}

type strategyFile struct {
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

// NewFilesystemStore creates a store rooted at dir.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{root: dir, cache: make(map[cacheKey]*core.Resource)}
}

// Get implements core.ResourceStore.
func (s *FilesystemStore) Get(kind core.Kind, name string) (*core.Resource, error) {
	s.mu.RLock()
	if res, ok := s.cache[cacheKey{kind: kind, name: name}]; ok {
		s.mu.RUnlock()
		return res, nil
	}
	s.mu.RUnlock()

	res, err := s.load(kind, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[cacheKey{kind: kind, name: name}] = res
	s.mu.Unlock()
	return res, nil
}

// List implements core.ResourceStore, returning names sorted for stable output.
func (s *FilesystemStore) List(kind core.Kind) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, kindDir(kind)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Reload drops the parsed-resource cache. Subsequent Gets re-read from disk.
func (s *FilesystemStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[cacheKey]*core.Resource)
}

func (s *FilesystemStore) load(kind core.Kind, name string) (*core.Resource, error) {
	switch kind {
	case core.KindPattern:
		return s.loadBody(kind, name,
			filepath.Join(s.root, "patterns", name, "system.md"),
			filepath.Join(s.root, "patterns", name+".md"),
		)
	case core.KindContext:
		return s.loadBody(kind, name, filepath.Join(s.root, "contexts", name+".md"))
	case core.KindStrategy:
		return s.loadStrategy(name)
	default:
		return nil, &core.NotFoundError{Kind: kind, Name: name}
	}
}

// loadBody reads the first existing candidate path as a text resource with
// optional front matter.
func (s *FilesystemStore) loadBody(kind core.Kind, name string, paths ...string) (*core.Resource, error) {
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s %q: %w", kind, name, err)
		}
		body, metadata, err := splitFrontMatter(string(raw))
		if err != nil {
			return nil, &core.MalformedResourceError{Kind: kind, Name: name, Reason: err.Error()}
		}
		return &core.Resource{Kind: kind, Name: name, Body: body, Metadata: metadata}, nil
	}
	return nil, &core.NotFoundError{Kind: kind, Name: name}
}

func (s *FilesystemStore) loadStrategy(name string) (*core.Resource, error) {
	var raw []byte
	var err error
	for _, ext := range []string{".yaml", ".yml"} {
		raw, err = os.ReadFile(filepath.Join(s.root, "strategies", name+ext))
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read strategy %q: %w", name, err)
		}
	}
	if err != nil {
		return nil, &core.NotFoundError{Kind: core.KindStrategy, Name: name}
	}

	var sf strategyFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, &core.MalformedResourceError{Kind: core.KindStrategy, Name: name, Reason: err.Error()}
	}
	if strings.TrimSpace(sf.Prompt) == "" {
		return nil, &core.MalformedResourceError{Kind: core.KindStrategy, Name: name, Reason: "missing required field: prompt"}
	}
	return &core.Resource{
		Kind:     core.KindStrategy,
		Name:     name,
		Body:     sf.Prompt,
		Metadata: map[string]string{"description": sf.Description},
	}, nil
}

func kindDir(kind core.Kind) string {
	switch kind {
	case core.KindPattern:
		return "patterns"
	case core.KindStrategy:
		return "strategies"
	case core.KindContext:
		return "contexts"
	default:
		return string(kind)
	}
}

// splitFrontMatter separates an optional leading YAML front matter block from
// the body. Returns the body unchanged when no block is present.
func splitFrontMatter(raw string) (body string, metadata map[string]string, err error) {
	metadata = map[string]string{}
	if !strings.HasPrefix(raw, "---\n") {
		return raw, metadata, nil
	}
	rest := raw[len("---\n"):]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return raw, metadata, nil
	}
	block := rest[:idx]
	body = strings.TrimPrefix(rest[idx+len("\n---"):], "\n")
	if err := yaml.Unmarshal([]byte(block), &metadata); err != nil {
		return "", nil, fmt.Errorf("front matter: %w", err)
	}
	return body, metadata, nil
}
