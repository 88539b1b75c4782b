package core

// ExecutionRequest describes one engine invocation: which pattern to run,
// the caller's input and variables, optional strategy/context overlays, the
// target session and the model to route to. Transient, one per invocation.
type ExecutionRequest struct {
	// PatternName selects the required pattern resource.
	PatternName string `json:"pattern_name"`
	// Input is the raw caller input, exposed to templates as {{input}}.
	Input string `json:"input"`
	// InputVariables supplies values for {{name}} tokens.
	InputVariables map[string]string `json:"input_variables,omitempty"`
	// StrategyName optionally selects a strategy resource.
	StrategyName string `json:"strategy_name,omitempty"`
	// ContextName optionally selects a context resource.
	ContextName string `json:"context_name,omitempty"`
	// SessionID targets an existing conversation. Empty means a new session.
	SessionID string `json:"session_id,omitempty"`
	// Model names the backend model; routing happens in the provider gateway.
	Model string `json:"model"`
	// RawMode folds instructions and input into a single user message for
	// backends that ignore system-role messages.
	RawMode bool `json:"raw_mode,omitempty"`
}

// ExecutionResult is the outcome of a successful execution.
type ExecutionResult struct {
	// Session is a snapshot of the updated session, including the turn just
	// produced.
	Session *Session `json:"session"`
	// ResponseText is the provider's full response.
	ResponseText string `json:"response_text"`
	// RawPayload optionally carries the unmodified vendor response body.
	RawPayload []byte `json:"raw_payload,omitempty"`
}
