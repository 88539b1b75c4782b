package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when a template references {{input}} but no
	// caller input was supplied.
	ErrMissingInput = errors.New("missing special variable: input")

	// ErrResolveDepthExceeded is returned when template resolution does not
	// stabilize within the pass bound.
	ErrResolveDepthExceeded = errors.New("template resolution depth exceeded")
)

// NotFoundError reports a missing pattern, strategy or context resource.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// MalformedResourceError reports a resource that failed validation, e.g. a
// strategy missing its required prompt field.
type MalformedResourceError struct {
	Kind   Kind
	Name   string
	Reason string
}

func (e *MalformedResourceError) Error() string {
	return fmt.Sprintf("malformed %s %q: %s", e.Kind, e.Name, e.Reason)
}

// MissingVariableError reports a {{name}} token with no matching variable.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing variable: %s", e.Name)
}

// UnknownPluginError reports a plugin token whose (namespace, operation) pair
// has no registration.
type UnknownPluginError struct {
	Namespace string
	Operation string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin: %s:%s", e.Namespace, e.Operation)
}

// UnknownModelError reports a model name no connector declares.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model: %s", e.Model)
}

// AmbiguousModelError reports a model name declared by multiple connectors.
type AmbiguousModelError struct {
	Model      string
	Connectors []string
}

func (e *AmbiguousModelError) Error() string {
	return fmt.Sprintf("ambiguous model %s: declared by %v", e.Model, e.Connectors)
}

// ProviderReasonTimeout marks provider failures caused by a deadline.
const ProviderReasonTimeout = "timeout"

// ProviderError reports a backend failure surfaced by the provider gateway.
// Connector-level retry policy is opaque to the engine; any connector failure
// arrives here uniformly.
type ProviderError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("provider %s failed (%s): %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was caused by a deadline.
func (e *ProviderError) Timeout() bool { return e.Reason == ProviderReasonTimeout }

// PersistenceError reports a conversation store write failure.
type PersistenceError struct {
	SessionID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session %s: persistence failed: %v", e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
