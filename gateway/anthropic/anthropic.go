// Package anthropic provides a gateway.Connector for the Anthropic Claude
// Messages API. The backend is driven whole-response; a streaming request is
// served by emitting the complete text as a single partial chunk followed by
// the final chunk, which keeps stream-concatenation equal to the direct path.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/gateway"
)

// Options configures the Anthropic connector.
type Options struct {
	// Models is the model set declared to the gateway's routing table.
	Models []string
	// Temperature is the default sampling temperature; per-request values win.
	Temperature float64
	// MaxTokens is the default output cap; per-request values win.
	MaxTokens int64
	// APIKey overrides the environment-provided key.
	APIKey string
}

// Connector wraps the Anthropic Messages API behind gateway.Connector.
type Connector struct {
	client *anthropic.Client
	opts   Options
}

// NewConnector creates a connector using the official client.
func NewConnector(optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Connector{client: &client, opts: opts}
}

// NewConnectorFromClient creates a connector from an existing client.
func NewConnectorFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Connector {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Connector{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Models: []string{
			string(anthropic.ModelClaude3_5Sonnet20241022),
			string(anthropic.ModelClaude3_5Haiku20241022),
		},
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Info implements gateway.Connector.
func (c *Connector) Info() gateway.Info {
	return gateway.Info{Provider: "anthropic", Models: c.opts.Models, Streaming: false}
}

// Generate implements gateway.Connector over the whole-response Messages API.
func (c *Connector) Generate(ctx context.Context, req gateway.Request) (<-chan gateway.Chunk, <-chan error) {
	out := make(chan gateway.Chunk, 2)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := c.buildParams(req)
		resp, err := c.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		var text strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				text.WriteString(block.AsText().Text)
			}
		}

		finishReason := "stop"
		if resp.StopReason != "" {
			finishReason = string(resp.StopReason)
		}

		if req.Stream {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- gateway.Chunk{Text: text.String(), Partial: true}:
			}
		}
		out <- gateway.Chunk{
			Text:         text.String(),
			FinishReason: finishReason,
			Raw:          []byte(resp.RawJSON()),
		}
	}()

	return out, errCh
}

// buildParams converts normalized messages into Anthropic message parameters.
// System content travels in the dedicated System field; meta-role messages
// are engine bookkeeping and never sent.
func (c *Connector) buildParams(req gateway.Request) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case core.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	temperature := c.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.opts.MaxTokens
	if req.MaxOutputTokens != nil {
		maxTokens = *req.MaxOutputTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
	}
	if len(system) > 0 {
		params.System = system
	}
	return params
}
