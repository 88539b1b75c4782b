package template

// InputVariable is the reserved name bound to the caller's raw input.
const InputVariable = "input"

// Variables supplies values for {{name}} tokens and records which names were
// read during resolution. The orchestrator uses the read log to decide
// whether the caller's input was consumed by a template or still needs to be
// delivered as a separate user message.
//
// Variables is not safe for concurrent use; resolution is single-threaded per
// call.
type Variables struct {
	values map[string]string
	used   map[string]bool
}

// NewVariables wraps a value map. The map is copied, so later mutation of the
// argument does not affect resolution.
func NewVariables(values map[string]string) *Variables {
	v := &Variables{values: make(map[string]string, len(values)), used: make(map[string]bool)}
	for name, value := range values {
		v.values[name] = value
	}
	return v
}

// Set binds name to value, overwriting any earlier binding.
func (v *Variables) Set(name, value string) { v.values[name] = value }

// Lookup returns the value bound to name, recording the read.
func (v *Variables) Lookup(name string) (string, bool) {
	value, ok := v.values[name]
	if ok {
		v.used[name] = true
	}
	return value, ok
}

// Used reports whether name was read by a Lookup since construction.
func (v *Variables) Used(name string) bool { return v.used[name] }
