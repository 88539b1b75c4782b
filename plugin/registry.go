package plugin

import (
	"fmt"
	"sync"

	"github.com/promptweave/promptweave/core"
)

// Func is a plugin extension callable: one string argument in, one string out.
// Implementations must be side-effect-free or internally thread-safe because
// unrelated executions may invoke them concurrently.
type Func func(arg string) (string, error)

type key struct {
	namespace string
	operation string
}

// Registry maps (namespace, operation) pairs to extension functions.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	funcs map[key]Func
}

// NewRegistry creates a registry preloaded with the builtin namespaces.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[key]Func)}
	registerBuiltins(r)
	return r
}

// NewEmptyRegistry creates a registry without builtins. Useful for tests that
// want full control over the dispatch table.
func NewEmptyRegistry() *Registry {
	return &Registry{funcs: make(map[key]Func)}
}

// Register binds fn to (namespace, operation). Registering the same pair twice
// returns an error rather than silently replacing the earlier binding.
func (r *Registry) Register(namespace, operation string, fn Func) error {
	if namespace == "" || operation == "" || fn == nil {
		return fmt.Errorf("plugin registration requires namespace, operation and fn")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{namespace: namespace, operation: operation}
	if _, exists := r.funcs[k]; exists {
		return fmt.Errorf("plugin already registered: %s:%s", namespace, operation)
	}
	r.funcs[k] = fn
	return nil
}

// Invoke dispatches to the registered function for (namespace, operation).
// Unknown pairs fail with core.UnknownPluginError.
func (r *Registry) Invoke(namespace, operation, argument string) (string, error) {
	r.mu.RLock()
	fn, ok := r.funcs[key{namespace: namespace, operation: operation}]
	r.mu.RUnlock()
	if !ok {
		return "", &core.UnknownPluginError{Namespace: namespace, Operation: operation}
	}
	return fn(argument)
}

// Namespaces returns the distinct registered namespaces, for discovery tools.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var names []string
	for k := range r.funcs {
		if !seen[k.namespace] {
			seen[k.namespace] = true
			names = append(names, k.namespace)
		}
	}
	return names
}
