package testutil

import (
	"context"
	"fmt"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/gateway"
)

// ScriptedConnector is a deterministic in-memory gateway.Connector. It
// replies to the last non-system message with a canned response (or a
// generated echo), optionally split into rune chunks when streaming.
type ScriptedConnector struct {
	Provider  string
	Models    []string
	Responses map[string]string
	// Err, when set, fails every call.
	Err error
	// Requests records every request for assertions.
	Requests []gateway.Request
}

// NewScriptedConnector constructs a connector declaring the given models.
func NewScriptedConnector(provider string, models ...string) *ScriptedConnector {
	return &ScriptedConnector{Provider: provider, Models: models, Responses: map[string]string{}}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (c *ScriptedConnector) AddResponse(prompt, response string) {
	c.Responses[prompt] = response
}

// Info implements gateway.Connector.
func (c *ScriptedConnector) Info() gateway.Info {
	return gateway.Info{Provider: c.Provider, Models: c.Models, Streaming: true}
}

// Generate implements gateway.Connector; emits optional rune chunks then the
// final response.
func (c *ScriptedConnector) Generate(ctx context.Context, req gateway.Request) (<-chan gateway.Chunk, <-chan error) {
	c.Requests = append(c.Requests, req)
	out := make(chan gateway.Chunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		if c.Err != nil {
			errCh <- c.Err
			return
		}

		prompt := lastConversationalText(req.Messages)
		full, ok := c.Responses[prompt]
		if !ok {
			full = fmt.Sprintf("scripted response to: %s", prompt)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- gateway.Chunk{Text: string(r), Partial: true}:
				}
			}
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case out <- gateway.Chunk{Text: full, FinishReason: "stop", Raw: []byte(`{"scripted":true}`)}:
		}
	}()
	return out, errCh
}

// LastRequest returns the most recent request, failing loudly when none exists.
func (c *ScriptedConnector) LastRequest() gateway.Request {
	if len(c.Requests) == 0 {
		panic("testutil: no requests recorded")
	}
	return c.Requests[len(c.Requests)-1]
}

func lastConversationalText(msgs []core.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == core.RoleUser || msgs[i].Role == core.RoleSystem {
			return msgs[i].Content
		}
	}
	if len(msgs) > 0 {
		return msgs[len(msgs)-1].Content
	}
	return ""
}

// HangingConnector blocks until the context is done, for timeout and
// cancellation tests.
type HangingConnector struct {
	Provider string
	Models   []string
}

// Info implements gateway.Connector.
func (c *HangingConnector) Info() gateway.Info {
	return gateway.Info{Provider: c.Provider, Models: c.Models, Streaming: true}
}

// Generate implements gateway.Connector.
func (c *HangingConnector) Generate(ctx context.Context, _ gateway.Request) (<-chan gateway.Chunk, <-chan error) {
	out := make(chan gateway.Chunk)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		<-ctx.Done()
		errCh <- ctx.Err()
	}()
	return out, errCh
}
