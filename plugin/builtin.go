package plugin

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// timeNow is swapped in tests for deterministic clock reads.
var timeNow = time.Now

// registerBuiltins installs the engine's builtin namespaces:
//
//	text:upper, text:lower, text:title    pure string transforms
//	datetime:now, datetime:today,
//	datetime:rel (arg = signed duration)  wall-clock reads
//	sys:env (arg = variable name)         environment reads
func registerBuiltins(r *Registry) {
	_ = r.Register("text", "upper", func(arg string) (string, error) {
		return strings.ToUpper(arg), nil
	})
	_ = r.Register("text", "lower", func(arg string) (string, error) {
		return strings.ToLower(arg), nil
	})
	_ = r.Register("text", "title", func(arg string) (string, error) {
		if len(arg) == 0 {
			return arg, nil
		}
		return strings.ToUpper(string(arg[0])) + strings.ToLower(arg[1:]), nil
	})

	_ = r.Register("datetime", "now", func(string) (string, error) {
		return timeNow().UTC().Format(time.RFC3339), nil
	})
	_ = r.Register("datetime", "today", func(string) (string, error) {
		return timeNow().UTC().Format("2006-01-02"), nil
	})
	_ = r.Register("datetime", "rel", func(arg string) (string, error) {
		d, err := time.ParseDuration(arg)
		if err != nil {
			return "", fmt.Errorf("datetime:rel: invalid duration %q: %w", arg, err)
		}
		return timeNow().UTC().Add(d).Format(time.RFC3339), nil
	})

	_ = r.Register("sys", "env", func(arg string) (string, error) {
		return os.Getenv(arg), nil
	})
}
