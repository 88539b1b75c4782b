package gateway

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/logging"
)

// Request captures one normalized provider invocation.
type Request struct {
	// Model names the target model; routing resolves it to a connector.
	Model string
	// Messages is the fully-assembled, ordered message list.
	Messages []core.Message
	// Stream requests incremental delivery where the backend supports it.
	Stream bool
	// Temperature optionally overrides the connector default.
	Temperature *float64
	// MaxOutputTokens optionally caps the response length.
	MaxOutputTokens *int64
}

// Chunk is one unit of connector output. Partial chunks carry text deltas;
// the final chunk carries the full response text, the finish reason and,
// where available, the raw vendor payload.
type Chunk struct {
	Text         string
	Partial      bool
	FinishReason string
	Raw          []byte
}

// Info describes a connector implementation.
type Info struct {
	// Provider identifies the backend ("openai", "anthropic", ...).
	Provider string
	// Models is the declared model set used by the routing table.
	Models []string
	// Streaming reports whether the backend delivers true incremental chunks.
	Streaming bool
}

// Connector adapts one backend API to the chunk-channel contract. The
// returned channels are closed by the connector when generation ends; on
// failure an error is delivered before both channels close. A streamed
// response is finite, single-pass and not restartable.
type Connector interface {
	Info() Info
	Generate(ctx context.Context, req Request) (<-chan Chunk, <-chan error)
}

// SendResult is a drained, normalized provider response.
type SendResult struct {
	Text         string
	FinishReason string
	Raw          []byte
}

// Options configures a Gateway.
type Options struct {
	// Timeout bounds each provider call. Zero means no gateway-imposed bound.
	Timeout time.Duration
	// Logger records routing decisions and call outcomes. Defaults to NoOp.
	Logger logging.Logger
}

// Gateway holds the static routing table from model names to connectors.
type Gateway struct {
	connectors []Connector
	timeout    time.Duration
	logger     logging.Logger
}

// New creates a gateway over the given connectors.
func New(connectors []Connector, optFns ...func(o *Options)) *Gateway {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{connectors: connectors, timeout: opts.Timeout, logger: opts.Logger}
}

// Send routes req, invokes the connector and drains the response into a
// SendResult. Partial chunks are discarded; only the final text is returned.
func (g *Gateway) Send(ctx context.Context, req Request) (*SendResult, error) {
	return g.invoke(ctx, req, nil)
}

// SendStream routes req and invokes onChunk for every partial text delta as
// it arrives. The full drained result is returned after the stream ends. A
// second call re-issues a new request; streams are not restartable.
func (g *Gateway) SendStream(ctx context.Context, req Request, onChunk func(delta string)) (*SendResult, error) {
	req.Stream = true
	return g.invoke(ctx, req, onChunk)
}

func (g *Gateway) invoke(ctx context.Context, req Request, onChunk func(delta string)) (*SendResult, error) {
	conn, err := g.route(req.Model)
	if err != nil {
		return nil, err
	}
	provider := conn.Info().Provider

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	chunks, errCh := conn.Generate(ctx, req)

	var final *Chunk
	for chunk := range chunks {
		if chunk.Partial {
			if onChunk != nil {
				onChunk(chunk.Text)
			}
			continue
		}
		c := chunk
		final = &c
	}
	if err := <-errCh; err != nil {
		g.logger.Error("provider call failed", "provider", provider, "model", req.Model, "error", err)
		return nil, g.wrapErr(provider, err)
	}
	if final == nil {
		if err := ctx.Err(); err != nil {
			return nil, g.wrapErr(provider, err)
		}
		return nil, &core.ProviderError{Provider: provider, Err: errors.New("no final response received")}
	}

	g.logger.Debug("provider call completed",
		"provider", provider, "model", req.Model,
		"duration", time.Since(start), "finish_reason", final.FinishReason)
	return &SendResult{Text: final.Text, FinishReason: final.FinishReason, Raw: final.Raw}, nil
}

// route selects the unique connector declaring model.
func (g *Gateway) route(model string) (Connector, error) {
	var matches []Connector
	for _, conn := range g.connectors {
		if slices.Contains(conn.Info().Models, model) {
			matches = append(matches, conn)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &core.UnknownModelError{Model: model}
	case 1:
		return matches[0], nil
	default:
		providers := make([]string, len(matches))
		for i, conn := range matches {
			providers[i] = conn.Info().Provider
		}
		return nil, &core.AmbiguousModelError{Model: model, Connectors: providers}
	}
}

func (g *Gateway) wrapErr(provider string, err error) error {
	var provErr *core.ProviderError
	if errors.As(err, &provErr) {
		return err
	}
	reason := ""
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = core.ProviderReasonTimeout
	case errors.Is(err, context.Canceled):
		reason = "canceled"
	}
	return &core.ProviderError{Provider: provider, Reason: reason, Err: err}
}
