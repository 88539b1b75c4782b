// Package resource houses concrete implementations of core.ResourceStore.
// The contract itself (and the Resource type) live in the core package to
// centralize domain contracts; keeping only implementations here prevents
// higher level packages from depending on concrete storage.
//
// Two backends are provided: a filesystem store reading an authored resource
// tree (patterns, strategies, contexts) and an in-memory store for tests and
// embedding hosts. Additional backends (database, object storage, ...) can be
// added without changing any calling code.
package resource
