// Package openai provides a gateway.Connector backed by the OpenAI Chat
// Completions API (streaming and non-streaming). It adapts PromptWeave's
// normalized request/chunk structures into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/gateway"
)

// Options configure the OpenAI connector. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	// Models is the model set declared to the gateway's routing table.
	Models []string
	// Temperature is the default sampling temperature; per-request values win.
	Temperature float64
	// MaxCompletionTokens is the default output cap; per-request values win.
	MaxCompletionTokens int64
}

// Connector wraps the OpenAI Chat Completions API behind gateway.Connector.
type Connector struct {
	client *openai.Client
	opts   Options
}

// NewConnector creates a connector using the default client (API key from
// the environment).
func NewConnector(optFns ...func(o *Options)) *Connector {
	client := openai.NewClient()
	return NewConnectorFromClient(&client, optFns...)
}

// NewConnectorFromClient creates a connector from an existing client.
func NewConnectorFromClient(client *openai.Client, optFns ...func(o *Options)) *Connector {
	opts := Options{
		Models: []string{
			openai.ChatModelGPT4o,
			openai.ChatModelGPT4oMini,
			openai.ChatModelGPT4_1,
			openai.ChatModelGPT4_1Mini,
		},
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{client: client, opts: opts}
}

// Info implements gateway.Connector.
func (c *Connector) Info() gateway.Info {
	return gateway.Info{Provider: "openai", Models: c.opts.Models, Streaming: true}
}

// Generate implements unified streaming / non-streaming generation.
func (c *Connector) Generate(ctx context.Context, req gateway.Request) (<-chan gateway.Chunk, <-chan error) {
	out := make(chan gateway.Chunk, 32)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		params := c.buildParams(req)
		if req.Stream {
			c.handleStreaming(ctx, params, out, errCh)
			return
		}
		c.handleNonStreaming(ctx, params, out, errCh)
	}()
	return out, errCh
}

// buildParams converts normalized messages into OpenAI chat parameters.
// Meta-role messages are engine bookkeeping and never sent to a provider.
func (c *Connector) buildParams(req gateway.Request) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}

	temperature := c.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.opts.MaxCompletionTokens
	if req.MaxOutputTokens != nil {
		maxTokens = *req.MaxOutputTokens
	}
	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               req.Model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}
}

// handleStreaming forwards text deltas as partial chunks and emits the final
// accumulated chunk when the backend reports a finish reason.
func (c *Connector) handleStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- gateway.Chunk,
	errCh chan<- error,
) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	var full strings.Builder
	finishReason := ""
	for stream.Next() {
		ck := stream.Current()
		for _, ch := range ck.Choices {
			if ch.Delta.Content != "" {
				full.WriteString(ch.Delta.Content)
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- gateway.Chunk{Text: ch.Delta.Content, Partial: true}:
				}
			}
			if ch.FinishReason != "" {
				finishReason = ch.FinishReason
			}
		}
	}
	if err := stream.Err(); err != nil {
		errCh <- fmt.Errorf("openai streaming error: %w", err)
		return
	}
	out <- gateway.Chunk{Text: full.String(), FinishReason: finishReason}
}

// handleNonStreaming processes a normal (non-streaming) completion.
func (c *Connector) handleNonStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- gateway.Chunk,
	errCh chan<- error,
) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		errCh <- fmt.Errorf("openai api error: %w", err)
		return
	}
	if len(resp.Choices) == 0 {
		errCh <- fmt.Errorf("no choices returned")
		return
	}
	ch0 := resp.Choices[0]
	out <- gateway.Chunk{
		Text:         ch0.Message.Content,
		FinishReason: ch0.FinishReason,
		Raw:          []byte(resp.RawJSON()),
	}
}
