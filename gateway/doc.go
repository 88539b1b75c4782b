// Package gateway routes assembled message lists to model backend connectors
// and normalizes their heterogeneous response shapes (streaming vs.
// whole-response) into a single structured result.
//
// A Connector declares the model names it serves; the gateway's static
// routing table selects the connector whose declared set contains the
// requested model, failing with core.UnknownModelError when none does and
// core.AmbiguousModelError when more than one does.
//
// Connectors communicate through a chunk channel: zero or more partial chunks
// carrying text deltas, then exactly one final chunk carrying the full
// response text. The concatenation of a request's partial deltas equals the
// final text, so streaming and non-streaming paths stay reconcilable.
package gateway
