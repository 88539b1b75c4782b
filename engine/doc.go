// Package engine implements the execution orchestrator: the façade that turns
// an ExecutionRequest into a fully-resolved instruction payload, dispatches it
// through the provider gateway and persists the resulting conversation turn.
//
// One execution moves through fixed phases: load resources, assemble the
// prompt via the template resolver, invoke the provider, update the session.
// A failure in any phase aborts the execution; the session is updated only
// after the provider response has fully arrived, so a failed or cancelled
// execution never leaves a partially-updated conversation behind.
//
// Concurrent executions against unrelated sessions run freely. Executions
// targeting the same session are serialized by a per-session lock held across
// the provider call and the append, keeping message ordering intact.
package engine
