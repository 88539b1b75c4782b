package template

import (
	"strings"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/plugin"
)

// DefaultMaxPasses bounds the number of full resolution sweeps. Each sweep
// resolves every currently-innermost token once, so independent tokens cost a
// single sweep and only token chains (values producing further tokens) spend
// additional passes.
const DefaultMaxPasses = 64

const pluginPrefix = "plugin:"

// Options configures a Resolver.
type Options struct {
	// MaxPasses overrides DefaultMaxPasses. Zero keeps the default.
	MaxPasses int
}

// Resolver resolves {{...}} tokens against variables and a plugin registry.
// Safe for concurrent use across unrelated resolutions as long as each call
// gets its own Variables.
type Resolver struct {
	registry  *plugin.Registry
	maxPasses int
}

// NewResolver creates a resolver dispatching plugin tokens to registry.
func NewResolver(registry *plugin.Registry, optFns ...func(o *Options)) *Resolver {
	opts := Options{MaxPasses: DefaultMaxPasses}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	return &Resolver{registry: registry, maxPasses: opts.MaxPasses}
}

// Resolve repeatedly rewrites text until no resolvable token remains.
//
// Text containing an incomplete token (a "{{" with no matching "}}") is
// returned verbatim once nothing resolvable is left. Resolution errors
// (missing variable or input, unknown plugin, plugin failure) abort
// immediately. If the text has not stabilized after the pass bound the
// resolution fails with core.ErrResolveDepthExceeded.
func (r *Resolver) Resolve(text string, vars *Variables) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}
	for pass := 0; pass < r.maxPasses; pass++ {
		out, replaced, err := r.sweep(text, vars)
		if err != nil {
			return "", err
		}
		if !replaced {
			return out, nil
		}
		text = out
	}
	return "", core.ErrResolveDepthExceeded
}

// sweep scans text left-to-right once, replacing each innermost token it
// encounters. Replacement text is skipped, not rescanned; a value that
// introduces new tokens is handled by the caller's next sweep.
func (r *Resolver) sweep(text string, vars *Variables) (string, bool, error) {
	var out strings.Builder
	pos := 0
	replaced := false
	for {
		start, end, ok := nextToken(text, pos)
		if !ok {
			out.WriteString(text[pos:])
			return out.String(), replaced, nil
		}
		content := strings.TrimSpace(text[start+2 : end])
		value, err := r.resolveToken(content, vars)
		if err != nil {
			return "", false, err
		}
		out.WriteString(text[pos:start])
		out.WriteString(value)
		pos = end + 2
		replaced = true
	}
}

// nextToken locates the first innermost token at or after pos: the first
// "}}" whose nearest preceding "{{" encloses no further "{{".
func nextToken(text string, pos int) (start, end int, ok bool) {
	closing := strings.Index(text[pos:], "}}")
	if closing < 0 {
		return 0, 0, false
	}
	end = pos + closing
	open := strings.LastIndex(text[pos:end], "{{")
	if open < 0 {
		// A stray "}}": look for a complete token further right.
		return nextToken(text, end+2)
	}
	return pos + open, end, true
}

// resolveToken classifies token content and produces its replacement.
func (r *Resolver) resolveToken(content string, vars *Variables) (string, error) {
	if content == InputVariable {
		value, ok := vars.Lookup(InputVariable)
		if !ok {
			return "", core.ErrMissingInput
		}
		return value, nil
	}
	if strings.HasPrefix(content, pluginPrefix) {
		return r.invokePlugin(content)
	}
	value, ok := vars.Lookup(content)
	if !ok {
		return "", &core.MissingVariableError{Name: content}
	}
	return value, nil
}

// invokePlugin parses plugin:<namespace>:<operation>:<argument> and
// dispatches it. The argument may be empty or absent.
func (r *Resolver) invokePlugin(content string) (string, error) {
	parts := strings.SplitN(content, ":", 4)
	namespace, operation, argument := "", "", ""
	if len(parts) > 1 {
		namespace = parts[1]
	}
	if len(parts) > 2 {
		operation = parts[2]
	}
	if len(parts) > 3 {
		argument = parts[3]
	}
	if namespace == "" || operation == "" {
		return "", &core.UnknownPluginError{Namespace: namespace, Operation: operation}
	}
	return r.registry.Invoke(namespace, operation, argument)
}
