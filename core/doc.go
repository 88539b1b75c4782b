// Package core provides the foundational domain types and contracts used by
// PromptWeave. It defines the core abstractions for:
//
//   - Resources (named pattern / strategy / context text blobs)
//   - Messages and Sessions (ordered, durable conversation logs)
//   - Execution requests and results
//   - Pluggable stores for resources and conversation history
//   - The engine error taxonomy
//
// The package intentionally keeps implementation concerns (persistence,
// provider connectors, orchestration) out of scope, exposing small interfaces
// to enable custom backends and extensions.
package core
