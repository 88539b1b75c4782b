// Package plugin implements the extension registry that lets templates invoke
// named capabilities through {{plugin:namespace:operation:argument}} tokens.
//
// The registry is an explicit map keyed by (namespace, operation), without
// reflection, so dispatch stays statically checkable and an unknown token is
// detectable without exception-driven control flow. Registration happens once
// at process start; Invoke is safe for concurrent use and never mutates
// registry state.
//
// The engine ships three builtin namespaces (text, datetime, sys); external
// collaborators such as a memory-search service or a workflow platform
// register additional namespaces at startup and are otherwise opaque.
package plugin
