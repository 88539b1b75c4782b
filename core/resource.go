package core

// Kind discriminates the three resource flavors served by a ResourceStore.
type Kind string

const (
	// KindPattern is a named, reusable task-instruction text template.
	KindPattern Kind = "pattern"
	// KindStrategy is a named prompt fragment biasing the model's reasoning
	// style, prepended to the assembled prompt.
	KindStrategy Kind = "strategy"
	// KindContext is a named reusable informational snippet inserted into the
	// assembled prompt.
	KindContext Kind = "context"
)

// Resource is a named text blob plus metadata. Resources are authored
// externally and are read-only to the engine; a loaded Resource must be
// treated as immutable.
//
// For strategies, Body holds the prompt text and Metadata["description"]
// carries the human-readable description used by listing tools.
type Resource struct {
	Kind     Kind              `json:"kind"`
	Name     string            `json:"name"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ResourceStore serves name-keyed resources of the three kinds.
//
// Implementations may cache; a cache is invalidated only by an explicit
// reload, never by background polling. Get returns a NotFoundError when no
// resource of that kind/name exists and a MalformedResourceError when a
// resource fails validation.
type ResourceStore interface {
	Get(kind Kind, name string) (*Resource, error)
	List(kind Kind) ([]string, error)
}
