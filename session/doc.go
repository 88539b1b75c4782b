// Package session houses concrete implementations of core.ConversationStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts; keeping only implementations here prevents the
// engine from depending on concrete storage.
//
// Two backends are provided: a process-local in-memory store and a Redis
// store for durable, shared history. Add additional backends (Postgres,
// files, ...) here without changing any calling code; only the wiring layer
// decides which implementation to instantiate.
package session
