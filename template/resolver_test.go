package template

import (
	"errors"
	"fmt"
	"testing"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(plugin.NewRegistry())
}

func TestResolve_NoTokens(t *testing.T) {
	r := newTestResolver(t)

	for _, text := range []string{"", "plain text", "a } b { c", "half }} open"} {
		got, err := r.Resolve(text, NewVariables(nil))
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestResolve_Variables(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Resolve("Answer: {{question}}", NewVariables(map[string]string{"question": "2+2?"}))
	require.NoError(t, err)
	assert.Equal(t, "Answer: 2+2?", got)
}

func TestResolve_Deterministic(t *testing.T) {
	r := newTestResolver(t)
	vars := map[string]string{"a": "1", "b": "2", "c": "3"}

	first, err := r.Resolve("{{a}}-{{b}}-{{c}}", NewVariables(vars))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := r.Resolve("{{a}}-{{b}}-{{c}}", NewVariables(vars))
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, "1-2-3", first)
}

func TestResolve_MissingVariable(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve("{{a}}", NewVariables(nil))
	var missing *core.MissingVariableError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "a", missing.Name)
}

func TestResolve_Input(t *testing.T) {
	r := newTestResolver(t)

	vars := NewVariables(map[string]string{InputVariable: "The quick brown fox..."})
	got, err := r.Resolve("Summarize: {{input}}", vars)
	require.NoError(t, err)
	assert.Equal(t, "Summarize: The quick brown fox...", got)
	assert.True(t, vars.Used(InputVariable))

	vars = NewVariables(map[string]string{InputVariable: "ignored"})
	_, err = r.Resolve("no tokens here", vars)
	require.NoError(t, err)
	assert.False(t, vars.Used(InputVariable))
}

func TestResolve_MissingInput(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve("Summarize: {{input}}", NewVariables(nil))
	assert.ErrorIs(t, err, core.ErrMissingInput)
}

func TestResolve_Plugin(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Resolve("{{plugin:text:upper:hello}}", NewVariables(nil))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)
}

func TestResolve_PluginEmptyArgument(t *testing.T) {
	reg := plugin.NewEmptyRegistry()
	require.NoError(t, reg.Register("probe", "arg", func(arg string) (string, error) {
		return fmt.Sprintf("[%s]", arg), nil
	}))
	r := NewResolver(reg)

	got, err := r.Resolve("{{plugin:probe:arg:}}", NewVariables(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	got, err = r.Resolve("{{plugin:probe:arg}}", NewVariables(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestResolve_UnknownPlugin(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve("{{plugin:vector:search:query}}", NewVariables(nil))
	var unknown *core.UnknownPluginError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "vector", unknown.Namespace)
	assert.Equal(t, "search", unknown.Operation)

	_, err = r.Resolve("{{plugin:}}", NewVariables(nil))
	assert.True(t, errors.As(err, &unknown))
}

func TestResolve_Nested(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Resolve("{{plugin:text:upper:{{name}}}}", NewVariables(map[string]string{"name": "bob"}))
	require.NoError(t, err)
	assert.Equal(t, "BOB", got)
}

func TestResolve_Composition(t *testing.T) {
	// A variable value may itself contain tokens; they resolve on the next sweep.
	r := newTestResolver(t)

	vars := NewVariables(map[string]string{
		"outer": "before {{inner}} after",
		"inner": "{{plugin:text:upper:x}}",
	})
	got, err := r.Resolve("{{outer}}", vars)
	require.NoError(t, err)
	assert.Equal(t, "before X after", got)
}

func TestResolve_LeftToRightOrder(t *testing.T) {
	reg := plugin.NewEmptyRegistry()
	var calls []string
	require.NoError(t, reg.Register("trace", "mark", func(arg string) (string, error) {
		calls = append(calls, arg)
		return arg, nil
	}))
	r := NewResolver(reg)

	_, err := r.Resolve("{{plugin:trace:mark:a}} {{plugin:trace:mark:b}} {{plugin:trace:mark:c}}", NewVariables(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestResolve_DepthBound(t *testing.T) {
	r := newTestResolver(t)

	// Self-reproducing value can never stabilize.
	vars := NewVariables(map[string]string{"loop": "{{loop}}"})
	_, err := r.Resolve("{{loop}}", vars)
	assert.ErrorIs(t, err, core.ErrResolveDepthExceeded)
}

func TestResolve_ManyVariablesSinglePass(t *testing.T) {
	// Independent tokens are resolved within one sweep, so a template with far
	// more tokens than the pass bound still resolves.
	r := NewResolver(plugin.NewRegistry(), func(o *Options) { o.MaxPasses = 4 })

	text := ""
	values := map[string]string{"v": "x"}
	for i := 0; i < 200; i++ {
		text += "{{v}}"
	}
	got, err := r.Resolve(text, NewVariables(values))
	require.NoError(t, err)
	assert.Len(t, got, 200)
}

func TestResolve_IncompleteToken(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Resolve("open {{never closed", NewVariables(nil))
	require.NoError(t, err)
	assert.Equal(t, "open {{never closed", got)

	got, err = r.Resolve("{{a}} and {{tail", NewVariables(map[string]string{"a": "1"}))
	require.NoError(t, err)
	assert.Equal(t, "1 and {{tail", got)
}
