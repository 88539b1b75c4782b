package plugin

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	got, err := r.Invoke("text", "upper", "hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)

	got, err = r.Invoke("text", "lower", "HeLLo")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = r.Invoke("text", "title", "bOB")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got)
}

func TestRegistry_DatetimeBuiltins(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = orig }()

	r := NewRegistry()

	got, err := r.Invoke("datetime", "now", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T12:00:00Z", got)

	got, err = r.Invoke("datetime", "today", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got)

	got, err = r.Invoke("datetime", "rel", "-24h")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14T12:00:00Z", got)

	_, err = r.Invoke("datetime", "rel", "yesterday")
	assert.Error(t, err)
}

func TestRegistry_SysEnv(t *testing.T) {
	t.Setenv("PROMPTWEAVE_TEST_VAR", "forty-two")
	r := NewRegistry()

	got, err := r.Invoke("sys", "env", "PROMPTWEAVE_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "forty-two", got)

	os.Unsetenv("PROMPTWEAVE_TEST_VAR")
	got, err = r.Invoke("sys", "env", "PROMPTWEAVE_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRegistry_UnknownPlugin(t *testing.T) {
	r := NewRegistry()

	_, err := r.Invoke("nope", "noop", "")
	var unknown *core.UnknownPluginError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Namespace)
	assert.Equal(t, "noop", unknown.Operation)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewEmptyRegistry()
	echo := func(arg string) (string, error) { return arg, nil }

	require.NoError(t, r.Register("memory", "search", echo))
	assert.Error(t, r.Register("memory", "search", echo))
}

func TestRegistry_ConcurrentInvoke(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := r.Invoke("text", "upper", "go")
				if err != nil || got != "GO" {
					t.Errorf("Invoke() = %q, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
